// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for pull-based playback backends
package output

import (
	"fmt"
	"sort"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// DefaultBufferFrames is the hardware period requested when none is given
const DefaultBufferFrames = 1024

// FillFunc fills out with interleaved PCM in the device format.
// It runs on the backend's real-time thread and must not block or allocate.
// len(out) is always a whole number of frames.
type FillFunc func(out []byte)

// DeviceConfig selects and sizes a playback endpoint
type DeviceConfig struct {
	// BufferFrames is the requested period size in frames (0 = DefaultBufferFrames)
	BufferFrames int

	// DeviceName selects a device by name; empty means the system default
	DeviceName string
}

// Backend owns a driver context and opens playback devices from it
type Backend interface {
	// Name returns the registry name of the backend
	Name() string

	// Open opens a playback device at a fixed format
	Open(format audio.Format, config DeviceConfig) (Device, error)

	// Close releases the driver context
	Close() error
}

// Device represents an open playback endpoint
type Device interface {
	// Format returns the format the device was opened with
	Format() audio.Format

	// RegisterFillCallback installs the real-time pull function
	RegisterFillCallback(fn FillFunc)

	// Start begins invoking the fill callback (idempotent)
	Start() error

	// Stop stops invoking the fill callback and waits for an in-flight
	// invocation to return (idempotent)
	Stop() error

	// Close releases the device (no-op if already closed)
	Close() error
}

var factories = map[string]func() Backend{
	"malgo":     NewMalgo,
	"oto":       NewOto,
	"portaudio": NewPortAudio,
	"null":      func() Backend { return NewNull(NullConfig{Realtime: true}) },
}

// New creates a backend by name
func New(name string) (Backend, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio backend %q (available: %v)", name, Backends())
	}
	return factory(), nil
}

// Backends returns the names accepted by New
func Backends() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c DeviceConfig) bufferFrames() int {
	if c.BufferFrames <= 0 {
		return DefaultBufferFrames
	}
	return c.BufferFrames
}
