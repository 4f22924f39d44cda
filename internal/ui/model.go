// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Maps key presses to engine calls and shows failures in an error dialog
package ui

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/Resonate-Protocol/playsound-go/pkg/engine"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrSimulated is raised by the Simulate Error button
var ErrSimulated = errors.New("this is a simulated audio playback error used to demonstrate error handling")

// refreshInterval is how often playback state is polled
const refreshInterval = 100 * time.Millisecond

// Player is the part of the engine the UI drives
type Player interface {
	Play() error
	Stop() error
	State() engine.State
	Active() bool
	Position() int
	SetVolume(volume int) error
	SetMuted(muted bool) error
}

// Options describe what the UI shows besides live engine state
type Options struct {
	// Sound is the name of the loaded clip
	Sound string

	// Backend is the output backend name
	Backend string

	// Format is the device format
	Format audio.Format

	// Volume is the initial volume (0-100)
	Volume int

	// Muted is the initial mute state
	Muted bool

	// StartupErr, when set, replaces the controls with a fatal error screen
	StartupErr error
}

// button indexes
const (
	buttonPlay = iota
	buttonStop
	buttonError
	buttonCount
)

var buttonLabels = [buttonCount]string{"Play", "Stop", "Simulate Error"}

// Model represents the TUI state
type Model struct {
	player  Player
	options Options
	keys    KeyMap
	help    help.Model

	// Playback
	state    engine.State
	active   bool
	position int
	volume   int
	muted    bool

	// Controls
	focus  int
	dialog string
	fatal  string

	// Dimensions
	width  int
	height int
}

// TickMsg triggers a refresh of playback state
type TickMsg time.Time

// ErrorMsg asks the UI to show err in the error dialog
type ErrorMsg struct {
	Err error
}

// NewModel creates a new TUI model
func NewModel(player Player, options Options) Model {
	if options.Volume == 0 {
		options.Volume = 100
	}
	m := Model{
		player:  player,
		options: options,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		volume:  options.Volume,
		muted:   options.Muted,
	}
	if options.StartupErr != nil {
		m.fatal = startupMessage(options.StartupErr)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case TickMsg:
		m.refresh()
		return m, tickCmd()
	case ErrorMsg:
		m.showError(msg.Err)
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The fatal screen only accepts quit
	if m.fatal != "" {
		return m, nil
	}

	// A dialog is modal until dismissed
	if m.dialog != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.dialog = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Play):
		m.press(buttonPlay)
	case key.Matches(msg, m.keys.Stop):
		m.press(buttonStop)
	case key.Matches(msg, m.keys.SimulateError):
		m.press(buttonError)
	case key.Matches(msg, m.keys.Press):
		m.press(m.focus)
	case key.Matches(msg, m.keys.Next):
		if msg.String() == "left" || msg.String() == "shift+tab" {
			m.focus = (m.focus + buttonCount - 1) % buttonCount
		} else {
			m.focus = (m.focus + 1) % buttonCount
		}
	case key.Matches(msg, m.keys.VolumeUp):
		m.setVolume(m.volume + 5)
	case key.Matches(msg, m.keys.VolumeDown):
		m.setVolume(m.volume - 5)
	case key.Matches(msg, m.keys.Mute):
		m.muted = !m.muted
		if err := m.player.SetMuted(m.muted); err != nil {
			m.showError(err)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// press runs a button's action
func (m *Model) press(button int) {
	m.focus = button

	var err error
	switch button {
	case buttonPlay:
		err = m.player.Play()
	case buttonStop:
		err = m.player.Stop()
	case buttonError:
		err = &engine.Error{Op: "play", Err: ErrSimulated}
	}

	if err != nil {
		m.showError(err)
	}
	m.refresh()
}

func (m *Model) setVolume(volume int) {
	m.volume = max(0, min(100, volume))
	if err := m.player.SetVolume(m.volume); err != nil {
		m.showError(err)
	}
}

// refresh pulls playback state from the player
func (m *Model) refresh() {
	if m.player == nil {
		return
	}
	m.state = m.player.State()
	m.active = m.player.Active()
	m.position = m.player.Position()
}

// showError opens the error dialog
func (m *Model) showError(err error) {
	log.Printf("UI error: %v", err)
	m.dialog = errorMessage(err)
}

// errorMessage phrases err for the dialog
func errorMessage(err error) string {
	var engErr *engine.Error
	switch {
	case errors.Is(err, ErrSimulated):
		return fmt.Sprintf("Error demo: %v", ErrSimulated)
	case errors.As(err, &engErr):
		return fmt.Sprintf("Playback failed: %v", engErr.Err)
	case errors.Is(err, engine.ErrNotInitialized), errors.Is(err, engine.ErrDisposed):
		return fmt.Sprintf("Playback failed: %v", err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

// startupMessage phrases an initialization failure
func startupMessage(err error) string {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return fmt.Sprintf("Audio system error: %v", engErr.Err)
	}
	return fmt.Sprintf("Application initialization failed: %v", err)
}
