package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/connections/pkg/analysis"
	"github.com/vanderheijden86/connections/pkg/config"
	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/session"
	"github.com/vanderheijden86/connections/pkg/watcher"
)

// IOError wraps a failed background operation with the phase it failed in.
type IOError struct {
	Phase string // "open", "save", "session", "link", "copy"
	Path  string
	Cause error
}

func (e IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Phase, e.Cause)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Phase, e.Path, e.Cause)
}

func (e IOError) Unwrap() error { return e.Cause }

type fileOpenedMsg struct {
	Path string
	Raw  map[string]any
	Err  error
}

// fileSavedMsg reports a finished save. Doc is the snapshot that was
// written, so the store can tell whether edits happened meanwhile.
type fileSavedMsg struct {
	TabID string
	Path  string
	Doc   *model.File
	Data  []byte
	Err   error
}

type fileChangedMsg struct{ Path string }

// fileReloadedMsg carries the new contents of a tab's file after another
// program changed it.
type fileReloadedMsg struct {
	TabID string
	Path  string
	Raw   map[string]any
	Err   error
}

type candidatesMsg struct{ Paths []string }

type statsMsg struct {
	Rev   uint64
	Stats analysis.Stats
}

type frameMsg time.Time

type autosaveMsg time.Time

type sessionSavedMsg struct{ Err error }

type noticeExpiredMsg struct{ Seq int }

type linkOpenedMsg struct {
	Link string
	Err  error
}

type copiedMsg struct {
	Value string
	Err   error
}

func openFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := fileio.Load(path)
		if err != nil {
			return fileOpenedMsg{Path: path, Err: IOError{Phase: "open", Path: path, Cause: err}}
		}
		return fileOpenedMsg{Path: path, Raw: raw}
	}
}

func reloadFileCmd(tabID, path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := fileio.Load(path)
		if err != nil {
			return fileReloadedMsg{TabID: tabID, Path: path, Err: IOError{Phase: "open", Path: path, Cause: err}}
		}
		return fileReloadedMsg{TabID: tabID, Path: path, Raw: raw}
	}
}

// saveFileCmd writes doc to path. A watched path is told about the new
// contents first so the write is not reported back as an external change.
func saveFileCmd(w *watcher.Watcher, tabID, path string, doc *model.File) tea.Cmd {
	return func() tea.Msg {
		fail := func(err error) tea.Msg {
			return fileSavedMsg{TabID: tabID, Path: path, Doc: doc, Err: IOError{Phase: "save", Path: path, Cause: err}}
		}
		data, err := loader.Marshal(doc)
		if err != nil {
			return fail(err)
		}
		undo := func() {}
		if w != nil {
			undo = w.Expect(path, data)
		}
		if err := fileio.Write(path, data); err != nil {
			undo()
			return fail(err)
		}
		return fileSavedMsg{TabID: tabID, Path: path, Doc: doc, Data: data}
	}
}

// waitForChange blocks on the watcher and turns the next change into a
// message. The caller re-issues it after every change.
func waitForChange(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return fileChangedMsg{Path: c.Path}
	}
}

// discoverCmd lists documents for the open prompt: recently used files
// first, then everything found under the configured scan paths.
func discoverCmd(cfg config.Config, db *session.DB) tea.Cmd {
	return func() tea.Msg {
		var paths []string
		seen := map[string]bool{}
		if db != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			recent, _ := db.Recent(ctx, 20)
			cancel()
			for _, p := range recent {
				if !seen[p] {
					seen[p] = true
					paths = append(paths, p)
				}
			}
		}
		found := config.DiscoverDocuments(cfg)
		sort.Strings(found)
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
		return candidatesMsg{Paths: paths}
	}
}

// statsCmd analyzes a document snapshot off the event loop. Betweenness is
// skipped on large graphs to keep the status bar responsive.
func statsCmd(rev uint64, doc *model.File) tea.Cmd {
	return func() tea.Msg {
		return statsMsg{Rev: rev, Stats: analysis.Analyze(doc, analysis.Options{
			Top:             3,
			SkipBetweenness: len(doc.People) > 2000,
		})}
	}
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func autosaveCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return autosaveMsg(t) })
}

func saveSessionCmd(db *session.DB, data []byte) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Save(ctx, data); err != nil {
			return sessionSavedMsg{Err: IOError{Phase: "session", Cause: err}}
		}
		return sessionSavedMsg{}
	}
}

func touchRecentCmd(db *session.DB, path string) tea.Cmd {
	if db == nil || path == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = db.Touch(ctx, path)
		return nil
	}
}

func noticeExpiryCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return noticeExpiredMsg{Seq: seq} })
}

func openLinkCmd(open func(context.Context, string) error, v string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := open(ctx, v); err != nil {
			return linkOpenedMsg{Link: v, Err: err}
		}
		return linkOpenedMsg{Link: v}
	}
}

func copyCmd(write func(string) error, v string) tea.Cmd {
	return func() tea.Msg {
		if err := write(v); err != nil {
			return copiedMsg{Value: v, Err: IOError{Phase: "copy", Cause: err}}
		}
		return copiedMsg{Value: v}
	}
}
