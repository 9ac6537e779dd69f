package ui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/connections/pkg/model"
)

func typeInto(p pathPrompt, s string) pathPrompt {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func testTheme() Theme { return DefaultTheme(lipgloss.NewRenderer(io.Discard)) }

func TestPathPrompt_Filter(t *testing.T) {
	candidates := []string{
		"/home/u/family.connections",
		"/home/u/friends.connections",
		"/home/u/work/colleagues.connections",
	}
	p := newPathPrompt(promptOpen, "", "", candidates, model.LangEN, testTheme())
	if len(p.matches) != 3 {
		t.Fatalf("empty query matches = %v", p.matches)
	}

	p = typeInto(p, "frnd")
	if len(p.matches) != 1 || p.matches[0] != candidates[1] {
		t.Fatalf("matches = %v", p.matches)
	}

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	msg, ok := cmd().(pathChosenMsg)
	if !ok || msg.Path != candidates[1] || msg.Mode != promptOpen {
		t.Errorf("chosen = %+v", msg)
	}
}

func TestPathPrompt_CursorAndComplete(t *testing.T) {
	candidates := []string{"/a/one.connections", "/a/two.connections"}
	p := newPathPrompt(promptOpen, "", "", candidates, model.LangEN, testTheme())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("cursor = %d, want 1", p.cursor)
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.input.Value(); got != candidates[1] {
		t.Errorf("completed to %q", got)
	}
	if p.chosen() != candidates[1] {
		t.Errorf("chosen = %q", p.chosen())
	}
}

func TestPathPrompt_SaveAddsExtension(t *testing.T) {
	tests := []struct {
		typed, want string
	}{
		{"/tmp/out", "/tmp/out" + model.Extension},
		{"/tmp/out" + model.Extension, "/tmp/out" + model.Extension},
		{"/tmp/out.json", "/tmp/out.json"},
		{"   ", ""},
	}
	for _, tt := range tests {
		p := newPathPrompt(promptSave, "tab1", "", nil, model.LangEN, testTheme())
		p = typeInto(p, tt.typed)
		if got := p.chosen(); got != tt.want {
			t.Errorf("chosen(%q) = %q, want %q", tt.typed, got, tt.want)
		}
	}
}

func TestPathPrompt_Cancel(t *testing.T) {
	p := newPathPrompt(promptSave, "tab1", "/tmp/x", nil, model.LangEN, testTheme())
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	msg, ok := cmd().(pathCancelledMsg)
	if !ok || msg.Mode != promptSave || msg.TabID != "tab1" {
		t.Errorf("cancel = %+v", msg)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	tests := []struct{ in, want string }{
		{"~/a.connections", "/home/tester/a.connections"},
		{"~", "/home/tester"},
		{"/abs/path", "/abs/path"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := shortenHome("/home/tester/docs/a.connections"); got != "~/docs/a.connections" {
		t.Errorf("shortenHome = %q", got)
	}
}
