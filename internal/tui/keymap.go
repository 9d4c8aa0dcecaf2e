package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Discovery
	NextCategory key.Binding
	PrevCategory key.Binding
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding

	// Redemption
	Scan key.Binding
	Back key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextCategory: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "previous category"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open venue"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "read QR code"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("Esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// DiscoveryHelp returns the bindings shown on the discovery screen.
func (k KeyMap) DiscoveryHelp() []key.Binding {
	return []key.Binding{k.PrevCategory, k.NextCategory, k.Up, k.Down, k.Open, k.Quit}
}

// RedemptionHelp returns the bindings shown on the venue screen.
func (k KeyMap) RedemptionHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Back, k.ForceQuit}
}
