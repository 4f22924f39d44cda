// ABOUTME: Audio engine lifecycle controller
// ABOUTME: Owns the backend, device, mixer and current clip behind one mutex
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/output"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/resample"
	"github.com/Resonate-Protocol/playsound-go/pkg/mixer"
	"github.com/Resonate-Protocol/playsound-go/pkg/resource"
)

// Engine plays a pre-loaded clip through an output device.
// All methods are safe for concurrent use.
type Engine struct {
	config Config

	mu      sync.Mutex
	state   State
	backend output.Backend
	device  output.Device
	mixer   *mixer.Mixer
	clip    []byte
	current *mixer.Source
	volume  int
	muted   bool

	// transitions not yet reported to OnStateChange
	pending []State
}

// New creates an uninitialized engine
func New(config Config) *Engine {
	config = config.withDefaults()
	return &Engine{
		config: config,
		state:  Uninitialized,
		volume: config.Volume,
		muted:  config.Muted,
	}
}

// Initialize decodes the clip in r, opens the output device and starts it.
// The device runs until Dispose, playing silence while nothing is queued.
func (e *Engine) Initialize(r io.Reader) error {
	e.mu.Lock()
	defer e.unlock()

	if err := e.checkUninitialized(); err != nil {
		return err
	}

	clip, err := e.prepare(r)
	if err != nil {
		return &Error{Op: "initialize", Err: err}
	}
	return e.open(clip)
}

// InitializeBuffer is Initialize for already decoded audio
func (e *Engine) InitializeBuffer(buf *audio.Buffer) error {
	e.mu.Lock()
	defer e.unlock()

	if err := e.checkUninitialized(); err != nil {
		return err
	}

	clip, err := e.prepareBuffer(buf)
	if err != nil {
		return &Error{Op: "initialize", Err: err}
	}
	return e.open(clip)
}

// Play restarts the clip from the beginning, replacing any playback in progress
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.unlock()

	if err := e.checkInitialized(); err != nil {
		return err
	}
	return e.playLocked()
}

// Stop silences the clip at the next device period. It is a no-op unless playing.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.unlock()

	if e.state == Disposed {
		return ErrDisposed
	}
	if e.state != Playing {
		return nil
	}

	// The source keeps its mixer slot so the next Play can rewind it
	if e.current != nil && !e.mixer.Pause(e.current.ID()) {
		e.current = nil
	}
	e.setState(Stopped)
	log.Printf("Playback stopped")
	return nil
}

// Load decodes a new clip and makes it the one Play uses, without
// reopening the device. Playback in progress is stopped.
func (e *Engine) Load(r io.Reader) error {
	e.mu.Lock()
	defer e.unlock()

	if err := e.checkInitialized(); err != nil {
		return err
	}

	clip, err := e.prepare(r)
	if err != nil {
		return &Error{Op: "load", Err: err}
	}
	e.swapClip(clip)
	return nil
}

// PlayResource loads name from p and plays it, initializing the engine
// first if needed. A missing resource fails before any engine state changes.
func (e *Engine) PlayResource(p resource.Provider, name string) error {
	if e.State() == Disposed {
		return ErrDisposed
	}
	if !p.Exists(name) {
		if name == "" {
			return resource.ErrInvalidName
		}
		return &resource.NotFoundError{Name: name}
	}

	rc, err := p.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	e.mu.Lock()
	defer e.unlock()

	if e.state == Disposed {
		return ErrDisposed
	}

	clip, err := e.prepare(rc)
	if err != nil {
		return &Error{Op: "load", Err: fmt.Errorf("%s: %w", name, err)}
	}

	if e.state == Uninitialized {
		if err := e.open(clip); err != nil {
			return err
		}
	} else {
		e.swapClip(clip)
	}
	return e.playLocked()
}

// Dispose stops the device, waits for the last callback, then releases the
// sources, the device and the backend in that order. It is idempotent, and
// teardown failures are logged rather than returned.
func (e *Engine) Dispose() error {
	e.mu.Lock()
	defer e.unlock()

	if e.state == Disposed {
		return nil
	}

	if e.device != nil {
		if err := e.device.Stop(); err != nil {
			log.Printf("Warning: failed to stop audio device: %v", err)
		}
	}
	if e.mixer != nil {
		e.mixer.Close()
	}
	e.current = nil
	e.clip = nil
	if e.device != nil {
		if err := e.device.Close(); err != nil {
			log.Printf("Warning: failed to close audio device: %v", err)
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			log.Printf("Warning: failed to close audio backend: %v", err)
		}
	}

	e.device = nil
	e.backend = nil
	e.setState(Disposed)
	log.Printf("Audio engine disposed")
	return nil
}

// Close is Dispose, so an Engine can be used as an io.Closer
func (e *Engine) Close() error {
	return e.Dispose()
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Active reports whether the current clip is still sounding
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Playing || e.current == nil || e.mixer == nil {
		return false
	}
	_, ok := e.mixer.Source(e.current.ID())
	return ok
}

// Position returns the playback position of the current clip in frames
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return 0
	}
	return e.current.Cursor()
}

// Format returns the device format
func (e *Engine) Format() audio.Format {
	return e.config.Format
}

// Mixer returns the engine's mixer, or nil before Initialize
func (e *Engine) Mixer() *mixer.Mixer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixer
}

// SetVolume sets the master volume (0-100)
func (e *Engine) SetVolume(volume int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Disposed {
		return ErrDisposed
	}
	e.volume = max(0, min(100, volume))
	if e.mixer != nil {
		e.mixer.SetVolume(e.volume)
	}
	return nil
}

// SetMuted sets mute state
func (e *Engine) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Disposed {
		return ErrDisposed
	}
	e.muted = muted
	if e.mixer != nil {
		e.mixer.SetMuted(muted)
	}
	return nil
}

// Volume returns the master volume
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Muted returns mute state
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Engine) checkUninitialized() error {
	switch e.state {
	case Uninitialized:
		return nil
	case Disposed:
		return ErrDisposed
	default:
		return ErrAlreadyInitialized
	}
}

func (e *Engine) checkInitialized() error {
	switch e.state {
	case Uninitialized:
		return ErrNotInitialized
	case Disposed:
		return ErrDisposed
	default:
		return nil
	}
}

// prepare decodes r and converts it to device PCM
func (e *Engine) prepare(r io.Reader) ([]byte, error) {
	buf, err := decode.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	return e.prepareBuffer(buf)
}

// prepareBuffer converts buf to device PCM
func (e *Engine) prepareBuffer(buf *audio.Buffer) ([]byte, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, errors.New("audio buffer is empty")
	}

	converted, err := resample.Convert(buf, e.config.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to %s: %w", buf.Format, e.config.Format, err)
	}
	if converted.Format.SampleRate != buf.Format.SampleRate || converted.Format.Channels != buf.Format.Channels {
		log.Printf("Converted clip from %s to %s", buf.Format, e.config.Format)
	}

	return encode.Buffer(converted, e.config.Format)
}

// open brings up backend, device and mixer for clip (must hold e.mu).
// On failure everything opened so far is released and the state is unchanged.
func (e *Engine) open(clip []byte) error {
	format := e.config.Format

	backend, err := e.config.OpenBackend(e.config.Backend)
	if err != nil {
		return &Error{Op: "initialize", Err: err}
	}

	device, err := backend.Open(format, output.DeviceConfig{
		BufferFrames: e.config.BufferFrames,
		DeviceName:   e.config.DeviceName,
	})
	if err != nil {
		e.closeBackend(backend)
		return &Error{Op: "initialize", Err: err}
	}

	mix, err := mixer.New(format, mixer.Config{
		MaxSources:  e.config.MaxSources,
		ChunkFrames: e.config.BufferFrames,
	})
	if err != nil {
		e.closeDevice(device)
		e.closeBackend(backend)
		return &Error{Op: "initialize", Err: err}
	}
	mix.SetVolume(e.volume)
	mix.SetMuted(e.muted)

	device.RegisterFillCallback(mix.FillBuffer)
	if err := device.Start(); err != nil {
		e.closeDevice(device)
		e.closeBackend(backend)
		return &Error{Op: "initialize", Err: err}
	}

	e.backend = backend
	e.device = device
	e.mixer = mix
	e.clip = clip
	e.setState(Ready)

	log.Printf("Audio engine initialized: %s via %s (%d frames loaded)",
		format, backend.Name(), len(clip)/format.FrameSize())
	return nil
}

// playLocked restarts the current source from frame 0, or submits a fresh
// one once the old source has played out (must hold e.mu)
func (e *Engine) playLocked() error {
	if e.current != nil && e.mixer.Restart(e.current.ID()) {
		e.setState(Playing)
		log.Printf("Restarting %d frames", e.current.Frames())
		return nil
	}
	e.dropCurrent()

	src, err := mixer.NewSource(e.clip, e.config.Format)
	if err != nil {
		e.abandonPlay()
		return &Error{Op: "play", Err: err}
	}
	if _, err := e.mixer.AddSource(src); err != nil {
		e.abandonPlay()
		return &Error{Op: "play", Err: err}
	}

	e.current = src
	e.setState(Playing)
	log.Printf("Playing %d frames", src.Frames())
	return nil
}

// abandonPlay leaves Playing when no source could be started (must hold e.mu)
func (e *Engine) abandonPlay() {
	if e.state == Playing {
		e.setState(Stopped)
	}
}

// swapClip replaces the loaded clip and stops playback (must hold e.mu)
func (e *Engine) swapClip(clip []byte) {
	e.dropCurrent()
	e.clip = clip
	if e.state == Playing {
		e.setState(Stopped)
	}
	log.Printf("Loaded clip (%d frames)", len(clip)/e.config.Format.FrameSize())
}

// dropCurrent removes the current source from the mixer (must hold e.mu)
func (e *Engine) dropCurrent() {
	if e.current != nil {
		e.mixer.RemoveSource(e.current.ID())
		e.current = nil
	}
}

func (e *Engine) closeDevice(device output.Device) {
	if err := device.Close(); err != nil {
		log.Printf("Warning: failed to close audio device: %v", err)
	}
}

func (e *Engine) closeBackend(backend output.Backend) {
	if err := backend.Close(); err != nil {
		log.Printf("Warning: failed to close audio backend: %v", err)
	}
}

// setState records a transition (must hold e.mu)
func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.state = s
	if e.config.OnStateChange != nil {
		e.pending = append(e.pending, s)
	}
}

// unlock releases e.mu and then reports pending transitions
func (e *Engine) unlock() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, s := range pending {
		e.config.OnStateChange(s)
	}
}
