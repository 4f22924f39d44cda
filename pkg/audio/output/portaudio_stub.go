//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio backend implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio backend
func NewPortAudio() Backend {
	return &PortAudio{}
}

// Name returns "portaudio"
func (p *PortAudio) Name() string { return "portaudio" }

// Open always fails in builds without the portaudio tag
func (p *PortAudio) Open(format audio.Format, config DeviceConfig) (Device, error) {
	return nil, deviceError(p.Name(), "open", format, errPortAudioDisabled)
}

// Close releases nothing
func (p *PortAudio) Close() error {
	return nil
}
