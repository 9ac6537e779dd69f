package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/extlink"
	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
)

// canvasTop is the first terminal row of the canvas; row 0 is the tab bar.
const canvasTop = 1

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctrl := m.cv.Ctrl
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m.requestQuit()
	case key.Matches(msg, k.Escape):
		ctrl.Key(canvas.KeyEscape, false)
	case key.Matches(msg, k.Help):
		m.showHelp = true

	case key.Matches(msg, k.Open):
		m.openPrompt()
	case key.Matches(msg, k.Save):
		return m.saveTab(m.st.ActiveTab(), false)
	case key.Matches(msg, k.SaveAs):
		return m.saveTab(m.st.ActiveTab(), true)
	case key.Matches(msg, k.NewTab):
		m.st.NewTab()
	case key.Matches(msg, k.CloseTab):
		t := m.st.ActiveTab()
		if t.Dirty {
			return m.openDialog(closeTabDialog(m.lang(), t.ID))
		}
		m.closeTab(t.ID)
	case key.Matches(msg, k.NextTab):
		m.st.CycleTab(1)
	case key.Matches(msg, k.PrevTab):
		m.st.CycleTab(-1)

	case key.Matches(msg, k.ZoomIn):
		ctrl.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		ctrl.ZoomOut()
	case key.Matches(msg, k.Fit):
		ctrl.Fit()
	case key.Matches(msg, k.ResetView):
		ctrl.ResetView()
	case key.Matches(msg, k.PanLeft):
		ctrl.PanBy(geom.Vec2{X: panStep * m.grid.W})
	case key.Matches(msg, k.PanRight):
		ctrl.PanBy(geom.Vec2{X: -panStep * m.grid.W})
	case key.Matches(msg, k.PanUp):
		ctrl.PanBy(geom.Vec2{Y: panStep / 2 * m.grid.H})
	case key.Matches(msg, k.PanDown):
		ctrl.PanBy(geom.Vec2{Y: -panStep / 2 * m.grid.H})

	case key.Matches(msg, k.AddPerson):
		cols, rows := m.canvasSize()
		ctrl.CreatePersonAt(ctrl.Viewport().ToWorld(m.grid.screen(cols/2, rows/2)))
	case key.Matches(msg, k.Edit):
		if p := m.st.Doc().People[m.st.Selection().Focused]; p != nil {
			return m.openDialog(editDialog(m.lang(), p))
		}
	case key.Matches(msg, k.Delete):
		if len(m.st.Selection().Multi) > 0 {
			ctrl.Key(canvas.KeyDelete, false)
		} else if id := m.st.Selection().Focused; id != "" {
			m.st.DeletePerson(id)
		}

	case key.Matches(msg, k.Names):
		m.showNames = !m.showNames
	case key.Matches(msg, k.Language):
		next := model.LangEN
		if m.lang() == model.LangEN {
			next = model.LangRU
		}
		m.st.SetLanguage(next)
	case key.Matches(msg, k.Animate):
		if m.cv.Float.Running() {
			m.cv.Float.Stop()
			return nil
		}
		m.cv.Float.Start()
		return frameCmd(m.frame)
	case key.Matches(msg, k.Detail):
		m.showDetail = !m.showDetail
		m.layout()

	case key.Matches(msg, k.NextSocial):
		m.detail.NextSocial()
	case key.Matches(msg, k.Copy):
		if s, ok := m.focusedSocial(); ok {
			return copyCmd(m.clip, s.Value)
		}
	case key.Matches(msg, k.OpenLink):
		if s, ok := m.focusedSocial(); ok {
			if !extlink.IsLinkish(s.Value) {
				return m.notify(canvas.NoticeWarning, "notALink", nil)
			}
			return openLinkCmd(m.open, s.Value)
		}
	}
	return nil
}

// focusedSocial is the social link under the detail cursor of the focused
// person.
func (m *Model) focusedSocial() (model.SocialLink, bool) {
	if !m.showDetail {
		return model.SocialLink{}, false
	}
	return m.detail.Social(m.st.Doc())
}

// handleMouse routes mouse events: the tab bar switches tabs, the canvas
// area drives the controller.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Y < canvasTop {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if id, ok := m.tabAt(msg.X); ok {
				m.st.SwitchTab(id)
			}
		}
		return nil
	}

	cols, rows := m.canvasSize()
	col, row := msg.X, msg.Y-canvasTop
	inside := col >= 0 && col < cols && row >= 0 && row < rows
	ptr := canvas.Pointer{Pos: m.grid.screen(col, row), Mods: mods(msg)}
	ctrl := m.cv.Ctrl

	switch {
	case tea.MouseEvent(msg).IsWheel():
		if !inside {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			ctrl.Wheel(ptr.Pos, -1)
		case tea.MouseButtonWheelDown:
			ctrl.Wheel(ptr.Pos, 1)
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inside {
			return nil
		}
		m.dragging = true
		ctrl.Down(ptr)

	case msg.Action == tea.MouseActionMotion && m.dragging:
		ctrl.Move(ptr)

	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		ctrl.Up(ptr)
	}
	return nil
}

func mods(msg tea.MouseMsg) canvas.Mod {
	var out canvas.Mod
	if msg.Shift {
		out |= canvas.ModShift
	}
	if msg.Alt {
		out |= canvas.ModAlt
	}
	if msg.Ctrl {
		out |= canvas.ModCtrl
	}
	return out
}
