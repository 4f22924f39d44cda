// ABOUTME: Device error types
// ABOUTME: Wraps backend failures with the operation and requested format
package output

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

var (
	// ErrNoDevice means the backend found no playback endpoint
	ErrNoDevice = errors.New("no playback device available")

	// ErrUnsupportedFormat means the backend rejected the sample format
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrClosed means the device or backend was already closed
	ErrClosed = errors.New("audio output closed")
)

// DeviceError reports a failure to open or drive a playback device.
// Callers may retry with a different format or backend.
type DeviceError struct {
	Backend string
	Op      string
	Format  audio.Format
	Err     error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Backend, e.Op, e.Format, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

func deviceError(backend, op string, format audio.Format, err error) *DeviceError {
	return &DeviceError{Backend: backend, Op: op, Format: format, Err: err}
}
