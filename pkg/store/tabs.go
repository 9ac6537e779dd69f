package store

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
)

// TabInfo describes one open tab.
type TabInfo struct {
	ID     string
	Path   string
	Dirty  bool
	Active bool
	Doc    *model.File
}

// Title is the file name shown in the tab bar; empty for unsaved tabs.
func (t TabInfo) Title() string {
	if t.Path == "" {
		return ""
	}
	return filepath.Base(t.Path)
}

func (s *Store) info(i int) TabInfo {
	t := s.tabs[i]
	return TabInfo{ID: t.id, Path: t.path, Dirty: t.dirty, Active: i == s.active, Doc: t.doc}
}

// Tabs lists the open tabs in display order.
func (s *Store) Tabs() []TabInfo {
	out := make([]TabInfo, len(s.tabs))
	for i := range s.tabs {
		out[i] = s.info(i)
	}
	return out
}

// ActiveTab describes the active tab.
func (s *Store) ActiveTab() TabInfo { return s.info(s.active) }

// DirtyTabs lists tabs with unsaved changes.
func (s *Store) DirtyTabs() []TabInfo {
	var out []TabInfo
	for i, t := range s.tabs {
		if t.dirty {
			out = append(out, s.info(i))
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tabs {
		if t.id == id {
			return i
		}
	}
	return -1
}

func (s *Store) activate(i int) {
	s.active = i
	// A different document is now visible; renderers must rebuild.
	s.bump(s.tabs[i], true)
}

// NewTab opens a blank document in the current language and activates it.
func (s *Store) NewTab() string {
	t := s.blankTab(s.Doc().Meta.Language)
	s.tabs = append(s.tabs, t)
	s.activate(len(s.tabs) - 1)
	return t.id
}

// OpenIntoTab normalizes a decoded document and shows it. A tab already
// holding path is reused; otherwise a pristine active tab (never saved,
// never edited) is replaced, and failing that a new tab is created.
func (s *Store) OpenIntoTab(raw any, path string) string {
	doc := loader.Normalize(raw, s.loaderOptions())

	idx := -1
	if path != "" {
		for i, t := range s.tabs {
			if t.path == path {
				idx = i
				break
			}
		}
	}
	if idx < 0 && s.pristine(s.cur()) {
		idx = s.active
	}
	if idx < 0 {
		s.tabs = append(s.tabs, &tab{id: s.newID()})
		idx = len(s.tabs) - 1
	}

	t := s.tabs[idx]
	t.doc = doc
	t.path = path
	t.dirty = false
	t.sel = Selection{}
	s.activate(idx)
	s.log.Info("document opened", zap.String("path", path), zap.Int("people", len(doc.People)))
	return t.id
}

// ReloadTab replaces the document of a clean tab with a fresh copy of its
// file. The active tab does not change and the selection keeps the people
// that still exist. Dirty or unknown tabs are left alone.
func (s *Store) ReloadTab(id string, raw any) bool {
	i := s.indexOf(id)
	if i < 0 || s.tabs[i].dirty {
		return false
	}
	t := s.tabs[i]
	t.doc = loader.Normalize(raw, s.loaderOptions())
	t.sel = keepExisting(t.sel, t.doc)
	s.bump(t, true)
	s.log.Info("document reloaded", zap.String("path", t.path), zap.Int("people", len(t.doc.People)))
	return true
}

func keepExisting(sel Selection, doc *model.File) Selection {
	var out Selection
	if doc.People[sel.Focused] != nil {
		out.Focused = sel.Focused
	}
	for _, id := range sel.Multi {
		if doc.People[id] != nil {
			out.Multi = append(out.Multi, id)
		}
	}
	if p := sel.Pending; p != nil && doc.People[p.From] != nil && doc.People[p.To] != nil {
		out.Pending = p
	}
	return out
}

func (s *Store) pristine(t *tab) bool {
	return t.path == "" && !t.dirty && len(t.doc.People) == 0
}

// SwitchTab activates the tab with id.
func (s *Store) SwitchTab(id string) bool {
	i := s.indexOf(id)
	if i < 0 || i == s.active {
		return false
	}
	s.activate(i)
	return true
}

// CycleTab activates the next (delta > 0) or previous tab, wrapping around.
func (s *Store) CycleTab(delta int) {
	if len(s.tabs) < 2 {
		return
	}
	n := len(s.tabs)
	s.activate(((s.active+delta)%n + n) % n)
}

// CloseTab closes the tab with id. Closing the last tab leaves a fresh
// blank one.
func (s *Store) CloseTab(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	lang := s.tabs[i].doc.Meta.Language
	s.tabs = append(s.tabs[:i:i], s.tabs[i+1:]...)
	if len(s.tabs) == 0 {
		s.tabs = []*tab{s.blankTab(lang)}
		s.activate(0)
		return true
	}
	next := s.active
	if i < s.active || next >= len(s.tabs) {
		next--
	}
	if next < 0 {
		next = 0
	}
	s.activate(next)
	return true
}

// MarkSaved records that tab id was written to path with the given
// snapshot. The dirty flag only clears if the tab still shows that
// snapshot; edits made while the save was in flight stay unsaved.
func (s *Store) MarkSaved(id, path string, saved *model.File) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := s.tabs[i]
	t.path = path
	if t.doc == saved {
		t.dirty = false
	}
	return true
}
