package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the canvas key bindings. It implements help.KeyMap.
type keyMap struct {
	Quit       key.Binding
	Open       key.Binding
	Save       key.Binding
	SaveAs     key.Binding
	NewTab     key.Binding
	CloseTab   key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Fit        key.Binding
	ResetView  key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	PanUp      key.Binding
	PanDown    key.Binding
	AddPerson  key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Escape     key.Binding
	Names      key.Binding
	Language   key.Binding
	Animate    key.Binding
	Detail     key.Binding
	NextSocial key.Binding
	Copy       key.Binding
	OpenLink   key.Binding
	Help       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save as")),
		NewTab:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "new tab")),
		CloseTab:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Fit:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		ResetView:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		PanLeft:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan")),
		PanRight:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan")),
		PanUp:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan")),
		PanDown:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan")),
		AddPerson:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add person")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("delete", "backspace", "x"), key.WithHelp("del", "delete")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Names:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "names")),
		Language:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
		Animate:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "float")),
		Detail:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		NextSocial: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next social")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy social")),
		OpenLink:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddPerson, k.Edit, k.Delete, k.Fit, k.Save, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddPerson, k.Edit, k.Delete, k.Escape, k.Names, k.Language, k.Animate},
		{k.ZoomIn, k.ZoomOut, k.Fit, k.ResetView, k.PanLeft, k.PanRight, k.PanUp, k.PanDown},
		{k.Open, k.Save, k.SaveAs, k.NewTab, k.CloseTab, k.NextTab, k.PrevTab},
		{k.Detail, k.NextSocial, k.Copy, k.OpenLink, k.Help, k.Quit},
	}
}
