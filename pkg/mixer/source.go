// ABOUTME: Pre-loaded PCM sound source with a read cursor
// ABOUTME: Reads return sub-slices of the buffer so the hot path never allocates
package mixer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/google/uuid"
)

// ErrEmptySource is returned for a buffer shorter than one frame
var ErrEmptySource = errors.New("source has no complete frames")

// SourceID identifies a source submitted to a mixer
type SourceID uuid.UUID

func (id SourceID) String() string {
	return uuid.UUID(id).String()
}

// Source lifecycle as seen by the fill callback
const (
	sourceActive    int32 = iota
	sourceRewind          // restart requested, applied before the next read
	sourceCompleted       // played to the end; never leaves this state
)

// Source is an immutable PCM buffer plus a cursor.
// Once submitted, the cursor is only advanced by the mixer's fill callback.
type Source struct {
	id        SourceID
	data      []byte
	format    audio.Format
	frameSize int

	cursor  atomic.Int64 // byte offset into data
	state   atomic.Int32
	removed atomic.Bool
	paused  atomic.Bool
}

// NewSource wraps data, which must already be in format. A trailing partial
// frame is dropped. data must not be modified afterwards.
func NewSource(data []byte, format audio.Format) (*Source, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	frameSize := format.FrameSize()
	usable := len(data) - len(data)%frameSize
	if usable == 0 {
		return nil, ErrEmptySource
	}
	return &Source{
		id:        SourceID(uuid.New()),
		data:      data[:usable],
		format:    format,
		frameSize: frameSize,
	}, nil
}

// ID returns the source's identifier
func (s *Source) ID() SourceID { return s.id }

// Format returns the source's sample format
func (s *Source) Format() audio.Format { return s.format }

// Frames returns the total length in frames
func (s *Source) Frames() int { return len(s.data) / s.frameSize }

// Cursor returns the read position in frames. A pending restart reads as 0.
func (s *Source) Cursor() int {
	if s.state.Load() == sourceRewind {
		return 0
	}
	return int(s.cursor.Load()) / s.frameSize
}

// Exhausted reports whether the cursor reached the end
func (s *Source) Exhausted() bool {
	if s.state.Load() == sourceRewind {
		return false
	}
	return int(s.cursor.Load()) >= len(s.data)
}

// Paused reports whether the source is held silent
func (s *Source) Paused() bool { return s.paused.Load() }

func (s *Source) completed() bool { return s.state.Load() == sourceCompleted }

// requestRewind asks the callback to restart from frame 0. It fails once
// the source has completed.
func (s *Source) requestRewind() bool {
	for {
		st := s.state.Load()
		if st == sourceCompleted {
			return false
		}
		if s.state.CompareAndSwap(st, sourceRewind) {
			return true
		}
	}
}

// applyRewind runs on the callback before a read
func (s *Source) applyRewind() {
	if s.state.Load() == sourceRewind {
		s.cursor.Store(0)
		s.state.CompareAndSwap(sourceRewind, sourceActive)
	}
}

// complete marks an exhausted source done unless a restart is pending
func (s *Source) complete() {
	s.state.CompareAndSwap(sourceActive, sourceCompleted)
}

// Read returns up to n frames starting at the cursor and advances it.
// exhausted is true once the cursor has reached the end of the buffer.
func (s *Source) Read(n int) (frames []byte, exhausted bool) {
	pos := int(s.cursor.Load())
	end := pos + n*s.frameSize
	if end > len(s.data) {
		end = len(s.data)
	}
	if end < pos {
		end = pos
	}
	s.cursor.Store(int64(end))
	return s.data[pos:end], end >= len(s.data)
}

func (s *Source) String() string {
	return fmt.Sprintf("source %s (%d/%d frames)", s.id, s.Cursor(), s.Frames())
}
