package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/store"
)

const maxTabWidth = 24

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return ""
	}

	cols, rows := m.canvasSize()
	var body string
	switch {
	case m.dialog != nil:
		body = m.overlay(m.dialog.form.View(), rows)
	case m.prompt != nil:
		body = m.overlay(m.prompt.View(), rows)
	case m.showHelp:
		m.help.ShowAll = true
		body = m.overlay(m.help.View(m.keys), rows)
	default:
		body = m.renderCanvas(cols, rows)
		if m.showDetail {
			panel := m.theme.Renderer.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(m.theme.Border).
				Width(m.width - cols - 1).
				Height(rows).
				Render(m.detail.View())
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabBar(), body, m.renderFooter())
}

func (m Model) overlay(content string, rows int) string {
	return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderCanvas(cols, rows int) string {
	r := NewRaster(cols, rows)
	doc := m.st.Doc()
	if len(doc.People) == 0 {
		r.CenterText(cols/2, rows/2, i18n.S(doc.Meta.Language, "hintCreate"), ink{fg: m.theme.Muted})
	}
	paint(r, scene{
		cv:        m.cv,
		doc:       doc,
		sel:       m.st.Selection(),
		grid:      m.grid,
		showNames: m.showNames,
		theme:     m.theme,
	})
	return r.Render(m.theme)
}

// tabLabel is the text of one tab in the tab bar.
func tabLabel(t store.TabInfo, untitled string) string {
	title := t.Title()
	if title == "" {
		title = untitled
	}
	title = runewidth.Truncate(title, maxTabWidth, "…")
	if t.Dirty {
		title += " •"
	}
	return " " + title + " "
}

// tabAt returns the tab under column x of the tab bar.
func (m Model) tabAt(x int) (string, bool) {
	untitled := i18n.S(m.lang(), "untitled")
	pos := 0
	for _, t := range m.st.Tabs() {
		w := runewidth.StringWidth(tabLabel(t, untitled))
		if x >= pos && x < pos+w {
			return t.ID, true
		}
		pos += w + 1
	}
	return "", false
}

func (m Model) renderTabBar() string {
	t := m.theme
	untitled := i18n.S(m.lang(), "untitled")
	active := t.Renderer.NewStyle().Foreground(t.Bg).Background(t.Primary).Bold(true)
	inactive := t.Renderer.NewStyle().Foreground(t.Subtext).Background(t.BgBar)

	var parts []string
	for _, tab := range m.st.Tabs() {
		st := inactive
		if tab.Active {
			st = active
		}
		parts = append(parts, st.Render(tabLabel(tab, untitled)))
	}
	bar := strings.Join(parts, " ")
	if gap := m.width - lipgloss.Width(bar); gap > 0 {
		bar += t.Renderer.NewStyle().Background(t.BgBar).Render(strings.Repeat(" ", gap))
	}
	return bar
}

func (m Model) renderFooter() string {
	t := m.theme
	lang := m.lang()
	doc := m.st.Doc()
	sel := m.st.Selection()
	ctrl := m.cv.Ctrl

	state := strings.ToUpper(ctrl.State().String())
	if m.dialog != nil {
		state = strings.ToUpper(m.dialog.kind.String())
	}
	stateSection := t.Renderer.NewStyle().Foreground(t.Bg).Background(t.Primary).Bold(true).Padding(0, 1).Render(state)

	stats := fmt.Sprintf(" %s: %d · %s: %d ", i18n.S(lang, "people"), len(doc.People), i18n.S(lang, "connections"), len(doc.Connections))
	if m.haveStats && m.stats.People > 0 {
		stats += fmt.Sprintf("· %s: %d ", i18n.S(lang, "components"), m.stats.Components)
	}
	if n := len(sel.Multi); n > 0 {
		stats += "· " + i18n.T(lang, "selected", map[string]string{"n": strconv.Itoa(n)}) + " "
	}
	statsSection := t.Renderer.NewStyle().Background(t.BgBar).Foreground(t.Base.GetForeground()).Render(stats)

	zoom := strconv.Itoa(int(ctrl.Viewport().Scale*100+0.5)) + "%"
	if m.cv.Float.Running() {
		zoom += " ~"
	}
	zoomSection := t.Renderer.NewStyle().Foreground(t.Secondary).Padding(0, 1).Render(zoom)

	var right string
	if m.notice.text != "" {
		color := t.Primary
		switch m.notice.level {
		case canvas.NoticeWarning:
			color = t.Warning
		case canvas.NoticeError:
			color = t.Error
		}
		right = t.Renderer.NewStyle().Foreground(color).Bold(true).Padding(0, 1).Render(m.notice.text)
	} else {
		m.help.ShowAll = false
		right = t.Renderer.NewStyle().Padding(0, 1).Render(m.help.View(m.keys))
	}

	leftWidth := lipgloss.Width(stateSection) + lipgloss.Width(statsSection) + lipgloss.Width(zoomSection)
	remaining := max(m.width-leftWidth-lipgloss.Width(right), 0)
	filler := t.Renderer.NewStyle().Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, stateSection, statsSection, zoomSection, filler, right)
}
