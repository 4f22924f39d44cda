// ABOUTME: TUI initialization
// ABOUTME: Wraps the bubbletea program for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// New creates the TUI program; the caller runs it
func New(player Player, options Options) *tea.Program {
	return tea.NewProgram(NewModel(player, options), tea.WithAltScreen())
}
