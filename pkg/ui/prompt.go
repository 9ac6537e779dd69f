package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

// promptMode says what a submitted path is used for.
type promptMode int

const (
	promptOpen promptMode = iota
	promptSave
)

// pathChosenMsg is sent when the user submits a path.
type pathChosenMsg struct {
	Mode  promptMode
	Path  string
	TabID string
}

// pathCancelledMsg is sent when the user dismisses the prompt.
type pathCancelledMsg struct {
	Mode  promptMode
	TabID string
}

const promptRows = 8

// pathPrompt is a text input with fuzzy-filtered document candidates,
// standing in for a native file picker.
type pathPrompt struct {
	mode       promptMode
	tabID      string
	input      textinput.Model
	candidates []string
	matches    []string
	cursor     int
	width      int
	theme      Theme
	lang       model.Lang
}

func newPathPrompt(mode promptMode, tabID, initial string, candidates []string, lang model.Lang, theme Theme) pathPrompt {
	ti := textinput.New()
	ti.Placeholder = "~/people" + model.Extension
	ti.CharLimit = 512
	ti.Width = 60
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	p := pathPrompt{
		mode:       mode,
		tabID:      tabID,
		input:      ti,
		candidates: candidates,
		theme:      theme,
		lang:       lang,
	}
	p.applyFilter()
	return p
}

func (p *pathPrompt) SetWidth(w int) {
	p.width = w
	p.input.Width = max(20, min(w-12, 80))
}

// Update handles keys while the prompt is open.
func (p pathPrompt) Update(msg tea.Msg) (pathPrompt, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	switch km.String() {
	case "esc", "ctrl+c":
		mode, tab := p.mode, p.tabID
		return p, func() tea.Msg { return pathCancelledMsg{Mode: mode, TabID: tab} }
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return p, nil
	case "tab":
		if p.cursor < len(p.matches) {
			p.input.SetValue(p.matches[p.cursor])
			p.input.CursorEnd()
			p.applyFilter()
		}
		return p, nil
	case "enter":
		path := p.chosen()
		if path == "" {
			return p, nil
		}
		mode, tab := p.mode, p.tabID
		return p, func() tea.Msg { return pathChosenMsg{Mode: mode, Path: path, TabID: tab} }
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.applyFilter()
	return p, cmd
}

// chosen is the path enter would submit: the typed path when it looks
// like one, otherwise the highlighted candidate.
func (p *pathPrompt) chosen() string {
	typed := strings.TrimSpace(p.input.Value())
	if p.mode == promptSave {
		if typed == "" {
			return ""
		}
		return fileio.WithExtension(expandHome(typed))
	}
	if strings.ContainsRune(typed, filepath.Separator) || strings.HasPrefix(typed, "~") || len(p.matches) == 0 {
		return expandHome(typed)
	}
	return p.matches[p.cursor]
}

func (p *pathPrompt) applyFilter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.matches = append(p.matches[:0], p.candidates...)
	} else {
		p.matches = p.matches[:0]
		for _, m := range fuzzy.Find(query, p.candidates) {
			p.matches = append(p.matches, m.Str)
		}
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(0, len(p.matches)-1)
	}
}

// View renders the prompt as a centered box.
func (p pathPrompt) View() string {
	t := p.theme
	title := i18n.S(p.lang, "openPath")
	if p.mode == promptSave {
		title = i18n.S(p.lang, "savePath")
	}
	var lines []string
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(title), "")
	lines = append(lines, p.input.View(), "")

	if len(p.matches) == 0 && p.mode == promptOpen {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render(i18n.S(p.lang, "noCandidates")))
	}
	start := max(0, p.cursor-promptRows+1)
	for i := start; i < len(p.matches) && i < start+promptRows; i++ {
		text := runewidth.Truncate(shortenHome(p.matches[i]), max(p.input.Width, 20), "…")
		if i == p.cursor {
			lines = append(lines, t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render("> "+text))
		} else {
			lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Render("  "+text))
		}
	}
	lines = append(lines, "", t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true).
		Render("↑/↓: choose │ tab: complete │ enter: ok │ esc: cancel"))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func shortenHome(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if rel, err := filepath.Rel(home, p); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return p
}
