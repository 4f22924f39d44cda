// ABOUTME: Real-time mixer summing active sources into the device buffer
// ABOUTME: Caller goroutines submit sources through a lock-free ring; the callback owns the active set
package mixer

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

const (
	DefaultMaxSources  = 32
	DefaultQueueSize   = 64
	DefaultChunkFrames = 1024
)

var (
	ErrFormatMismatch = errors.New("source format does not match mixer format")
	ErrTooManySources = errors.New("too many active sources")
	ErrQueueFull      = errors.New("mixer command queue full")
	ErrSourceInUse    = errors.New("source was already submitted")
	ErrClosed         = errors.New("mixer closed")
)

// Config sizes the mixer's preallocated state
type Config struct {
	// MaxSources bounds the number of live sources (default 32)
	MaxSources int

	// QueueSize is the capacity of the add queue (default 64)
	QueueSize int

	// ChunkFrames is the accumulator size in frames; larger fills are
	// mixed in several chunks (default 1024)
	ChunkFrames int
}

// Stats contains mixer counters
type Stats struct {
	Fills   uint64 // FillBuffer invocations
	Clipped uint64 // samples clamped to the format range
	Dropped uint64 // adds discarded because the active set was full
	Mixing  int    // sources in the callback's active set after the last fill
}

// Mixer sums sources into device buffers.
//
// AddSource, RemoveSource, Restart, Pause, ActiveCount, Reset and Close are called from
// caller goroutines. FillBuffer is called from exactly one real-time
// goroutine at a time and never blocks on the caller side.
type Mixer struct {
	format         audio.Format
	config         Config
	frameSize      int
	bytesPerSample int

	// caller side
	mu     sync.Mutex
	live   map[SourceID]*Source
	closed bool

	// caller -> callback handoff
	adds *ring[*Source]

	// callback side
	active []*Source
	acc    []int64

	volume atomic.Int32
	muted  atomic.Bool

	fills   atomic.Uint64
	clipped atomic.Uint64
	dropped atomic.Uint64
	mixing  atomic.Int32
}

// New creates a mixer for the given device format
func New(format audio.Format, config Config) (*Mixer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if config.MaxSources <= 0 {
		config.MaxSources = DefaultMaxSources
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.ChunkFrames <= 0 {
		config.ChunkFrames = DefaultChunkFrames
	}

	m := &Mixer{
		format:         format,
		config:         config,
		frameSize:      format.FrameSize(),
		bytesPerSample: format.BytesPerSample(),
		live:           make(map[SourceID]*Source, config.MaxSources),
		adds:           newRing[*Source](config.QueueSize),
		// removed sources may linger until the next fill, so leave headroom
		active: make([]*Source, 0, config.MaxSources*2),
		acc:    make([]int64, config.ChunkFrames*format.Channels),
	}
	m.volume.Store(100)
	return m, nil
}

// Format returns the mixer's output format
func (m *Mixer) Format() audio.Format { return m.format }

// AddSource submits src for playback starting at the next fill
func (m *Mixer) AddSource(src *Source) (SourceID, error) {
	if src == nil {
		return SourceID{}, errors.New("nil source")
	}
	if src.Format() != m.format {
		return SourceID{}, fmt.Errorf("%w: source %s, mixer %s", ErrFormatMismatch, src.Format(), m.format)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return SourceID{}, ErrClosed
	}
	if _, ok := m.live[src.id]; ok || src.removed.Load() || src.completed() {
		return SourceID{}, ErrSourceInUse
	}

	m.reapLocked()
	if len(m.live) >= m.config.MaxSources {
		return SourceID{}, ErrTooManySources
	}
	if !m.adds.push(src) {
		return SourceID{}, ErrQueueFull
	}
	m.live[src.id] = src
	return src.id, nil
}

// RemoveSource stops a source at the next fill. Unknown or already
// completed ids are ignored.
func (m *Mixer) RemoveSource(id SourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.live[id]
	if !ok {
		return
	}
	src.removed.Store(true)
	delete(m.live, id)
}

// Restart rewinds a live source to its first frame and resumes it if
// paused. The rewind lands at the next fill and uses no queue capacity.
// It reports false for unknown, removed or completed ids; submit a new
// source instead.
func (m *Mixer) Restart(id SourceID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reapLocked()
	src, ok := m.live[id]
	if !ok || !src.requestRewind() {
		return false
	}
	src.paused.Store(false)
	return true
}

// Pause holds a live source silent from the next fill without releasing
// its slot. Restart resumes it. It reports false for unknown ids.
func (m *Mixer) Pause(id SourceID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reapLocked()
	src, ok := m.live[id]
	if !ok {
		return false
	}
	src.paused.Store(true)
	return true
}

// ActiveCount returns the number of submitted sources that have been
// neither removed nor played to the end. Paused sources count.
func (m *Mixer) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapLocked()
	return len(m.live)
}

// Source returns a live source by id
func (m *Mixer) Source(id SourceID) (*Source, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapLocked()
	src, ok := m.live[id]
	return src, ok
}

// reapLocked forgets sources the callback flagged as completed (must hold m.mu)
func (m *Mixer) reapLocked() {
	for id, src := range m.live {
		if src.completed() {
			delete(m.live, id)
		}
	}
}

// Reset drops every source. The fill callback must not be running, which
// holds once the device's Stop has returned.
func (m *Mixer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Mixer) resetLocked() {
	for id, src := range m.live {
		src.removed.Store(true)
		delete(m.live, id)
	}
	for {
		src, ok := m.adds.pop()
		if !ok {
			break
		}
		src.removed.Store(true)
	}
	for i := range m.active {
		m.active[i] = nil
	}
	m.active = m.active[:0]
	m.mixing.Store(0)
}

// Close resets the mixer and refuses further sources. Same precondition as Reset.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.closed = true
}

// SetVolume sets the master volume (0-100)
func (m *Mixer) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	m.volume.Store(int32(volume))
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (m *Mixer) SetMuted(muted bool) {
	m.muted.Store(muted)
	log.Printf("Muted: %v", muted)
}

// Volume returns current volume
func (m *Mixer) Volume() int {
	return int(m.volume.Load())
}

// Muted returns mute state
func (m *Mixer) Muted() bool {
	return m.muted.Load()
}

// Stats returns a snapshot of the mixer counters
func (m *Mixer) Stats() Stats {
	return Stats{
		Fills:   m.fills.Load(),
		Clipped: m.clipped.Load(),
		Dropped: m.dropped.Load(),
		Mixing:  int(m.mixing.Load()),
	}
}

// FillBuffer mixes the next len(out)/FrameSize frames of every active source
// into out. It runs on the real-time thread: no locks, no allocation.
func (m *Mixer) FillBuffer(out []byte) {
	m.fills.Add(1)
	m.compact()
	m.drain()

	channels := m.format.Channels
	frames := len(out) / m.frameSize
	chunk := len(m.acc) / channels
	gain := m.gain()

	var clipped uint64
	for done := 0; done < frames; {
		n := min(chunk, frames-done)
		acc := m.acc[:n*channels]
		clear(acc)

		for _, src := range m.active {
			if src.removed.Load() || src.paused.Load() || src.completed() {
				continue
			}
			src.applyRewind()
			data, exhausted := src.Read(n)
			m.accumulate(acc, data)
			if exhausted {
				src.complete()
			}
		}

		clipped += m.write(out[done*m.frameSize:(done+n)*m.frameSize], acc, gain)
		done += n
	}
	clear(out[frames*m.frameSize:])

	if clipped > 0 {
		m.clipped.Add(clipped)
	}
}

// compact drops removed and completed sources from the active set
func (m *Mixer) compact() {
	kept := m.active[:0]
	for _, src := range m.active {
		if src.removed.Load() || src.completed() {
			continue
		}
		kept = append(kept, src)
	}
	for i := len(kept); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = kept
}

// drain moves queued sources into the active set
func (m *Mixer) drain() {
	for {
		src, ok := m.adds.pop()
		if !ok {
			break
		}
		if src.removed.Load() {
			continue
		}
		if len(m.active) == cap(m.active) {
			src.state.Store(sourceCompleted)
			m.dropped.Add(1)
			continue
		}
		m.active = append(m.active, src)
	}
	m.mixing.Store(int32(len(m.active)))
}

// accumulate adds the samples in data to acc
func (m *Mixer) accumulate(acc []int64, data []byte) {
	bps := m.bytesPerSample
	depth := m.format.BitDepth
	for i := 0; i*bps+bps <= len(data); i++ {
		acc[i] += int64(audio.ReadSample(data[i*bps:], depth))
	}
}

// write scales, clamps and encodes acc into out, returning the clipped count
func (m *Mixer) write(out []byte, acc []int64, gain int64) uint64 {
	bps := m.bytesPerSample
	depth := m.format.BitDepth
	lo, hi := m.format.MinSample(), m.format.MaxSample()

	var clipped uint64
	for i, v := range acc {
		if gain != 100 {
			v = v * gain / 100
		}
		if v > hi || v < lo {
			clipped++
		}
		audio.PutSample(out[i*bps:], depth, audio.Clamp(v, depth))
	}
	return clipped
}

// gain returns the volume multiplier in percent
func (m *Mixer) gain() int64 {
	if m.muted.Load() {
		return 0
	}
	return int64(m.volume.Load())
}
