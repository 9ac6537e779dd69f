package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/connections/pkg/config"
	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/store"
)

type fakeClipboard struct{ writes []string }

func (c *fakeClipboard) WriteAll(s string) error {
	c.writes = append(c.writes, s)
	return nil
}

type testEnv struct {
	clip   *fakeClipboard
	opened []string
	clock  time.Time
}

// newTestModel returns a sized model over a store with sequential ids and
// a frozen clock.
func newTestModel(t *testing.T) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		clip:  &fakeClipboard{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	n := 0
	st := store.New(store.Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
		Now:      func() time.Time { return env.clock },
		Language: model.LangEN,
	})
	cfg := config.Default()
	cfg.Animation.Enabled = false

	m := NewModel(Options{
		Store:     st,
		Config:    cfg,
		Clipboard: env.clip.WriteAll,
		OpenLink: func(_ context.Context, v string) error {
			env.opened = append(env.opened, v)
			return nil
		},
		Now:      func() time.Time { return env.clock },
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, env
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// click presses and releases the left button on a terminal cell.
func click(m Model, x, y int, shift bool) Model {
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Shift: shift, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Shift: shift, Action: tea.MouseActionRelease})
	return m
}

func TestDoubleClickCreatesPerson(t *testing.T) {
	m, _ := newTestModel(t)

	// Terminal row 6 is canvas row 5 below the tab bar.
	m = click(m, 10, 6, false)
	m = click(m, 10, 6, false)

	doc := m.Store().Doc()
	if len(doc.People) != 1 {
		t.Fatalf("people = %d, want 1", len(doc.People))
	}
	for _, p := range doc.People {
		if p.Position.X != 105 || p.Position.Y != 110 {
			t.Errorf("position = %+v, want (105, 110)", p.Position)
		}
	}
}

// linkTwo creates two people and drags a link between them.
func linkTwo(t *testing.T, m Model) (Model, string, string) {
	t.Helper()
	a := m.st.CreatePerson(55, 110)
	b := m.st.CreatePerson(205, 110)
	m.cv.Sync()

	m, _ = send(m, tea.MouseMsg{X: 5, Y: 6, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(m, tea.MouseMsg{X: 12, Y: 6, Shift: true, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = send(m, tea.MouseMsg{X: 20, Y: 6, Shift: true, Action: tea.MouseActionRelease})
	return m, a, b
}

func TestLinkGestureOpensConnectionDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m, a, b := linkTwo(t, m)

	if m.dialog == nil || m.dialog.kind != formConnection {
		t.Fatalf("dialog = %+v, want connection", m.dialog)
	}
	m.dialog.values.kind = model.KindFamily
	m.dialog.values.role = model.RoleMother
	m.finishDialog(false)

	conns := m.Store().Doc().Connections
	if len(conns) != 1 {
		t.Fatalf("connections = %d, want 1", len(conns))
	}
	c := conns[0]
	if c.From != a || c.To != b || c.Kind != model.KindFamily || c.FamilyRole != model.RoleMother {
		t.Errorf("connection = %+v", c)
	}
	if m.dialog != nil {
		t.Error("dialog still open")
	}
}

func TestEscCancelsDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m, _, _ = linkTwo(t, m)
	if m.dialog == nil {
		t.Fatal("no dialog")
	}

	m, _ = send(m, keyPress("esc"))
	if m.dialog != nil {
		t.Error("esc left the dialog open")
	}
	if n := len(m.Store().Doc().Connections); n != 0 {
		t.Errorf("connections = %d after cancel", n)
	}
	if m.Store().Selection().Pending != nil {
		t.Error("pending connection not cleared")
	}
}

func TestQuit(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		m, _ := newTestModel(t)
		m, cmd := send(m, keyPress("q"))
		if !m.quitting || cmd == nil {
			t.Fatal("clean quit did not exit")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("quit command does not quit")
		}
	})

	t.Run("unsaved discard", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.st.CreatePerson(0, 0)
		m, _ = send(m, keyPress("q"))
		if m.quitting || m.dialog == nil || m.dialog.kind != formUnsaved {
			t.Fatalf("dirty quit should ask first, dialog = %+v", m.dialog)
		}
		m.dialog.values.exit = exitDiscard
		m.finishDialog(false)
		if !m.quitting {
			t.Error("discard did not quit")
		}
	})

	t.Run("unsaved cancel", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.st.CreatePerson(0, 0)
		m, _ = send(m, keyPress("q"))
		m.dialog.values.exit = exitCancel
		m.finishDialog(false)
		if m.quitting || m.dialog != nil {
			t.Error("cancel should keep the editor open")
		}
	})
}

func TestSaveAll_PromptCancelled(t *testing.T) {
	m, _ := newTestModel(t)
	m.st.CreatePerson(0, 0)
	m, _ = send(m, keyPress("q"))
	m.dialog.values.exit = exitSaveAll
	m.finishDialog(false)

	if m.prompt == nil || m.prompt.mode != promptSave {
		t.Fatal("untitled tab should ask for a path")
	}
	m, _ = send(m, pathCancelledMsg{Mode: promptSave, TabID: m.prompt.tabID})
	if m.quitting || m.exiting || m.prompt != nil {
		t.Errorf("quitting=%v exiting=%v prompt=%v", m.quitting, m.exiting, m.prompt != nil)
	}
}

func TestSaveAll_WritesAndQuits(t *testing.T) {
	m, _ := newTestModel(t)
	m.st.CreatePerson(0, 0)
	tabID := m.st.ActiveTab().ID
	m, _ = send(m, keyPress("q"))
	m.dialog.values.exit = exitSaveAll
	m.finishDialog(false)

	path := filepath.Join(t.TempDir(), "friends"+model.Extension)
	save := m.pathChosen(pathChosenMsg{Mode: promptSave, Path: path, TabID: tabID})
	if save == nil {
		t.Fatal("no save command")
	}
	msg, ok := save().(fileSavedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("save = %+v", msg)
	}
	m.fileSaved(msg)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
	if len(m.st.DirtyTabs()) != 0 {
		t.Error("tab still dirty after save")
	}
	if !m.quitting {
		t.Error("save-all did not quit")
	}
}

func TestOpenInvalidFile(t *testing.T) {
	m, _ := newTestModel(t)
	path := filepath.Join(t.TempDir(), "notes"+model.Extension)
	if err := os.WriteFile(path, []byte(`{"hello": "world"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	msg := openFileCmd(path)().(fileOpenedMsg)
	m.fileOpened(msg)
	if want := i18n.S(model.LangEN, "invalidFile"); m.notice.text != want {
		t.Errorf("notice = %q, want %q", m.notice.text, want)
	}
	if len(m.st.Tabs()) != 1 || m.st.ActiveTab().Path != "" {
		t.Error("invalid file was opened")
	}
}

func TestZoomKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(m, keyPress("+"))
	if got := m.cv.Ctrl.Viewport().Scale; got <= 1 {
		t.Errorf("scale = %v after zoom in", got)
	}
	if got := m.st.Doc().Viewport.Scale; got <= 1 {
		t.Errorf("zoom not committed, stored scale = %v", got)
	}
}

func TestViewShowsPeople(t *testing.T) {
	m, _ := newTestModel(t)
	id := m.st.CreatePerson(200, 200)
	name := "Anna"
	m.st.UpdatePerson(id, model.PersonPatch{Name: model.Val(&name)})
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	if !strings.Contains(out, "Anna") {
		t.Errorf("view does not show the person:\n%s", out)
	}
	if !strings.Contains(out, "•") {
		t.Error("dirty tab not marked")
	}
}

func TestTabBarClickSwitchesTabs(t *testing.T) {
	m, _ := newTestModel(t)
	first := m.st.ActiveTab().ID
	m.st.NewTab()
	if m.st.ActiveTab().ID == first {
		t.Fatal("new tab not active")
	}

	m = click(m, 1, 0, false)
	if got := m.st.ActiveTab().ID; got != first {
		t.Errorf("active tab = %s, want %s", got, first)
	}
}

func TestFileChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "friends"+model.Extension)

	t.Run("dirty tab keeps edits", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.st.MarkSaved(m.st.ActiveTab().ID, path, m.st.Doc())
		m.st.CreatePerson(0, 0)

		m.fileChanged(fileChangedMsg{Path: path})
		want := i18n.T(model.LangEN, "modifiedOnDisk", map[string]string{"path": "friends" + model.Extension})
		if m.notice.text != want {
			t.Errorf("notice = %q, want %q", m.notice.text, want)
		}
		if len(m.st.Doc().People) != 1 {
			t.Error("edits lost")
		}
	})

	t.Run("clean tab reloads", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.st.MarkSaved(m.st.ActiveTab().ID, path, m.st.Doc())

		if cmd := m.fileChanged(fileChangedMsg{Path: path}); cmd == nil {
			t.Fatal("no reload command")
		}
		want := i18n.T(model.LangEN, "reloaded", map[string]string{"path": "friends" + model.Extension})
		if m.notice.text != want {
			t.Errorf("notice = %q, want %q", m.notice.text, want)
		}
	})

	t.Run("background tab reloads in place", func(t *testing.T) {
		m, _ := newTestModel(t)
		background := m.st.ActiveTab().ID
		m.st.MarkSaved(background, path, m.st.Doc())
		front := m.st.NewTab()

		doc := model.DefaultFile(model.LangEN, time.Now())
		p := model.NewPerson("anna", 0, 0)
		doc.People["anna"] = &p
		if _, err := fileio.Save(path, doc); err != nil {
			t.Fatal(err)
		}

		if cmd := m.fileChanged(fileChangedMsg{Path: path}); cmd == nil {
			t.Fatal("no reload command")
		}
		msg := reloadFileCmd(background, path)().(fileReloadedMsg)
		m.fileReloaded(msg)

		if got := m.st.ActiveTab().ID; got != front {
			t.Errorf("active tab = %s, want %s", got, front)
		}
		tab, _ := m.tab(background)
		if len(tab.Doc.People) != 1 || tab.Dirty {
			t.Errorf("background tab = %+v", tab)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		m, _ := newTestModel(t)
		if cmd := m.fileChanged(fileChangedMsg{Path: "/elsewhere"}); cmd != nil {
			t.Error("change to an unrelated file handled")
		}
	})
}

func TestCopySocial(t *testing.T) {
	m, env := newTestModel(t)
	id := m.st.CreatePerson(0, 0)
	m.st.AddSocial(id, "telegram", "@anna")
	m, _ = send(m, keyPress("i"))
	if !m.showDetail {
		t.Fatal("detail panel not shown")
	}

	cmd := m.handleKey(keyPress("y"))
	if cmd == nil {
		t.Fatal("no copy command")
	}
	msg := cmd().(copiedMsg)
	if msg.Err != nil || msg.Value != "@anna" {
		t.Errorf("copied = %+v", msg)
	}
	if len(env.clip.writes) != 1 || env.clip.writes[0] != "@anna" {
		t.Errorf("clipboard writes = %v", env.clip.writes)
	}

	// A handle is not a web link.
	m.handleKey(keyPress("o"))
	if len(env.opened) != 0 {
		t.Errorf("opened %v", env.opened)
	}
	if want := i18n.S(model.LangEN, "notALink"); m.notice.text != want {
		t.Errorf("notice = %q, want %q", m.notice.text, want)
	}
}
