// ABOUTME: Engine error values
// ABOUTME: Lifecycle sentinels plus Error for failures from the device or decoder
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Play and Load before Initialize
	ErrNotInitialized = errors.New("audio engine not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize
	ErrAlreadyInitialized = errors.New("audio engine already initialized")

	// ErrDisposed is returned by every operation after Dispose
	ErrDisposed = errors.New("audio engine disposed")
)

// Error wraps a failure from the backend, device, decoder or mixer
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("audio engine: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
