package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Panels
	Chat key.Binding
	Bell key.Binding

	// Chat
	Send key.Binding

	// Bell
	Open    key.Binding
	MarkAll key.Binding
	Refresh key.Binding

	// Palette
	Command key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Chat: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "chat panel"),
		),
		Bell: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "notifications"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open notification"),
		),
		MarkAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Command: key.NewBinding(
			key.WithKeys(":", "ctrl+p"),
			key.WithHelp(":/ctrl+p", "commands"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Chat, k.Bell, k.Help, k.Quit}
}

// FullHelp returns all keybindings grouped by panel for the expanded help
// view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Chat, k.Send, k.Back},
		{k.Bell, k.Up, k.Down, k.Open, k.MarkAll, k.Refresh},
		{k.Command, k.Help, k.Quit},
	}
}
