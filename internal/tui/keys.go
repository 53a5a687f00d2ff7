package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	PrevView key.Binding
	NextView key.Binding
	PickView key.Binding
	Activate key.Binding
	Watch    key.Binding
	Unwatch  key.Binding
	Star     key.Binding
	Unstar   key.Binding
	Open     key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Focus    key.Binding
	Back     key.Binding
	Relative key.Binding
	HelpBar  key.Binding
	Shrink   key.Binding
	Grow     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		PrevView: key.NewBinding(key.WithKeys("h", "left", "["), key.WithHelp("h/[", "prev view")),
		NextView: key.NewBinding(key.WithKeys("l", "right", "]"), key.WithHelp("l/]", "next view")),
		PickView: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find view")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/more")),
		Watch:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watch")),
		Unwatch:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "unwatch")),
		Star:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
		Unstar:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "unstar")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "browser")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy URL")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Relative: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time format")),
		HelpBar:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "help bar")),
		Shrink:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-/+", "resize")),
		Grow:     key.NewBinding(key.WithKeys("+", "=")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Activate, k.NextView, k.Star, k.Watch, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.PrevView, k.NextView, k.PickView, k.Reload, k.Activate},
		{k.Watch, k.Unwatch, k.Star, k.Unstar, k.Open, k.Copy},
		{k.Focus, k.Back, k.Relative, k.HelpBar, k.Shrink, k.Help, k.Quit},
	}
}
