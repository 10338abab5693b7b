package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all reader key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Escape        key.Binding
	ToggleSidebar key.Binding
	Reload        key.Binding

	// Focus
	SwitchFocus key.Binding

	// Scrolling
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Sections
	Enter       key.Binding
	NextSection key.Binding
	PrevSection key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle sidebar"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload document"),
		),

		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "sidebar/content"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "pagedown", " "),
			key.WithHelp("pgdn", "page down"),
		),

		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to section"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "previous section"),
		),
	}
}
