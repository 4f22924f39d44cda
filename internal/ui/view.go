// ABOUTME: Rendering for the player TUI
// ABOUTME: Lipgloss styles for the buttons, status panel and error dialog
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/playsound-go/internal/version"
	"github.com/Resonate-Protocol/playsound-go/pkg/engine"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8"))
	focusedButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("5")).
				Foreground(lipgloss.Color("5")).
				Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// View renders the TUI
func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version))

	if m.fatal != "" {
		body := dialogStyle.Render(errorStyle.Render("Error") + "\n\n" + m.fatal + "\n\n" +
			statusStyle.Render("press q to quit"))
		return lipgloss.JoinVertical(lipgloss.Left, header, "", body) + "\n"
	}

	if m.dialog != "" {
		body := dialogStyle.Render(errorStyle.Render("Error") + "\n\n" + m.dialog + "\n\n" +
			focusedButtonStyle.Render("OK"))
		return lipgloss.JoinVertical(lipgloss.Left, header, "", body) + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.renderStatus(),
		m.renderButtons(),
		m.help.View(m.keys),
	) + "\n"
}

// renderStatus renders engine state and format
func (m Model) renderStatus() string {
	state := m.state.String()
	if m.state == engine.Playing && m.active {
		state = playingStyle.Render("▶ playing")
	} else if m.state == engine.Playing {
		state = "finished"
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	lines := []string{
		fmt.Sprintf("Sound:    %s", m.options.Sound),
		fmt.Sprintf("State:    %s", state),
		fmt.Sprintf("Position: %s", m.elapsed()),
		fmt.Sprintf("Volume:   [%s] %d%%%s", renderBar(m.volume, 100, 10), m.volume, muteIcon),
		statusStyle.Render(fmt.Sprintf("Output:   %s via %s", m.options.Format, m.options.Backend)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderButtons renders the button row with the focused one highlighted
func (m Model) renderButtons() string {
	buttons := make([]string, buttonCount)
	for i, label := range buttonLabels {
		style := buttonStyle
		if i == m.focus {
			style = focusedButtonStyle
		}
		buttons[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// elapsed formats the playback position as seconds
func (m Model) elapsed() string {
	rate := m.options.Format.SampleRate
	if rate <= 0 {
		return fmt.Sprintf("%d frames", m.position)
	}
	d := time.Duration(m.position) * time.Second / time.Duration(rate)
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
