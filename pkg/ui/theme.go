package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and base styles of the editor. Styles are built
// from Renderer so tests can render without a terminal.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Multi     lipgloss.AdaptiveColor
	Bg        lipgloss.AdaptiveColor
	BgBar     lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the slate palette used by the editor.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#0369a1", Dark: "#38bdf8"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6d28d9", Dark: "#a78bfa"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94a3b8"},
		Muted:     lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#475569"},
		Border:    lipgloss.AdaptiveColor{Light: "#cbd5e1", Dark: "#334155"},
		Warning:   lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"},
		Error:     lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#ef4444"},
		Selected:  lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f8fafc"},
		Multi:     lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"},
		Bg:        lipgloss.AdaptiveColor{Light: "#f8fafc", Dark: "#0f172a"},
		BgBar:     lipgloss.AdaptiveColor{Light: "#e2e8f0", Dark: "#1e293b"},
	}
	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#e2e8f0"})
	return t
}
