// ABOUTME: Engine configuration with defaults
// ABOUTME: Selects the backend, device format and mixer sizing
package engine

import (
	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/output"
	"github.com/Resonate-Protocol/playsound-go/pkg/mixer"
)

// DefaultBackend is used when Config.Backend is empty
const DefaultBackend = "malgo"

// Config holds engine configuration
type Config struct {
	// Backend names the output backend (default: malgo)
	Backend string

	// DeviceName selects a playback device by name; empty uses the default
	DeviceName string

	// Format is the device format (default: 48kHz/2ch/16bit)
	Format audio.Format

	// BufferFrames is the device period in frames (default: 1024)
	BufferFrames int

	// MaxSources bounds concurrent sources in the mixer (default: 32)
	MaxSources int

	// Volume is the initial volume (1-100, default: 100)
	Volume int

	// Muted starts the engine muted
	Muted bool

	// OpenBackend constructs the backend by name (default: output.New)
	OpenBackend func(name string) (output.Backend, error)

	// OnStateChange is called after every state transition, outside the
	// engine lock
	OnStateChange func(State)
}

// withDefaults returns a copy of c with defaults applied
func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Format == (audio.Format{}) {
		c.Format = audio.DefaultFormat
	}
	if c.BufferFrames == 0 {
		c.BufferFrames = output.DefaultBufferFrames
	}
	if c.MaxSources == 0 {
		c.MaxSources = mixer.DefaultMaxSources
	}
	if c.Volume == 0 {
		c.Volume = 100
	}
	if c.OpenBackend == nil {
		c.OpenBackend = output.New
	}
	return c
}
