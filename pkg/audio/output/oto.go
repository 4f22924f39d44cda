// ABOUTME: Oto-based playback backend
// ABOUTME: Oto's player goroutine pulls PCM through a reader backed by the fill function
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// oto only allows one context per process, so it is shared by every Oto backend
var (
	otoMu        sync.Mutex
	otoCtx       *oto.Context
	otoFormat    audio.Format
	otoSuspended bool
)

// Oto backend using the oto library
type Oto struct {
	mu     sync.Mutex
	opened bool
}

// NewOto creates a new Oto backend
func NewOto() Backend {
	return &Oto{}
}

// Name returns "oto"
func (o *Oto) Name() string { return "oto" }

// Open initializes the shared oto context on first use and creates a player
func (o *Oto) Open(format audio.Format, config DeviceConfig) (Device, error) {
	// oto only supports 16-bit signed output
	if format.BitDepth != 16 {
		return nil, deviceError(o.Name(), "open", format,
			fmt.Errorf("%w: oto only supports 16-bit output", ErrUnsupportedFormat))
	}
	if err := format.Validate(); err != nil {
		return nil, deviceError(o.Name(), "open", format, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err))
	}

	if err := acquireOtoContext(format, config.bufferFrames()); err != nil {
		return nil, deviceError(o.Name(), "open", format, err)
	}

	o.mu.Lock()
	o.opened = true
	o.mu.Unlock()

	d := &OtoDevice{
		format:    format,
		frameSize: format.FrameSize(),
	}
	d.player = otoCtx.NewPlayer(&pullReader{device: d})
	d.player.SetBufferSize(config.bufferFrames() * d.frameSize)

	log.Printf("Audio output opened: %s (oto)", format)

	return d, nil
}

// Close suspends the shared context; oto cannot destroy it
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.opened {
		return nil
	}
	o.opened = false

	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx == nil || otoSuspended {
		return nil
	}
	if err := otoCtx.Suspend(); err != nil {
		return fmt.Errorf("oto suspend: %w", err)
	}
	otoSuspended = true
	return nil
}

func acquireOtoContext(format audio.Format, bufferFrames int) error {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoFormat != format {
			return fmt.Errorf("%w: oto context already running at %s", ErrUnsupportedFormat, otoFormat)
		}
		if otoSuspended {
			if err := otoCtx.Resume(); err != nil {
				return fmt.Errorf("oto resume: %w", err)
			}
			otoSuspended = false
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(format.SampleRate),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	otoCtx = ctx
	otoFormat = format
	return nil
}

// OtoDevice wraps one oto player
type OtoDevice struct {
	gate      gate
	format    audio.Format
	frameSize int

	mu      sync.Mutex
	player  *oto.Player
	started bool
}

// Format returns the device format
func (d *OtoDevice) Format() audio.Format { return d.format }

// RegisterFillCallback installs the pull function
func (d *OtoDevice) RegisterFillCallback(fn FillFunc) { d.gate.register(fn) }

// Start resumes the player
func (d *OtoDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return deviceError("oto", "start", d.format, ErrClosed)
	}
	if d.started {
		return nil
	}
	d.gate.open()
	d.player.Play()
	d.started = true
	return nil
}

// Stop pauses the player and waits for the reader to return
func (d *OtoDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	return nil
}

func (d *OtoDevice) stopLocked() {
	if !d.started {
		return
	}
	d.started = false
	d.gate.close()
	d.player.Pause()
}

// Close releases the player
func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	d.stopLocked()
	err := d.player.Close()
	d.player = nil
	if err != nil {
		return deviceError("oto", "close", d.format, err)
	}
	return nil
}

// pullReader adapts the fill function to the io.Reader oto pulls from
type pullReader struct {
	device *OtoDevice
}

func (r *pullReader) Read(p []byte) (int, error) {
	n := len(p) - len(p)%r.device.frameSize
	r.device.gate.run(p[:n])
	return n, nil
}
