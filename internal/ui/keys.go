// ABOUTME: Key bindings for the player TUI
// ABOUTME: Implements help.KeyMap so the help bubble can render them
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the player
type KeyMap struct {
	Play          key.Binding
	Stop          key.Binding
	SimulateError key.Binding
	Next          key.Binding
	Press         key.Binding
	Dismiss       key.Binding
	VolumeUp      key.Binding
	VolumeDown    key.Binding
	Mute          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns a set of default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Play: key.NewBinding(
			key.WithKeys("p", "P"),
			key.WithHelp("p", "play"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "stop"),
		),
		SimulateError: key.NewBinding(
			key.WithKeys("e", "E"),
			key.WithHelp("e", "simulate error"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "left", "shift+tab"),
			key.WithHelp("tab", "next button"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "ok"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("up", "+"),
			key.WithHelp("↑", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Stop, k.SimulateError, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Stop, k.SimulateError},
		{k.Next, k.Press},
		{k.VolumeUp, k.VolumeDown, k.Mute},
		{k.Help, k.Quit},
	}
}
