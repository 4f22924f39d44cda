// ABOUTME: Software playback backend with no hardware behind it
// ABOUTME: Drives the fill callback manually or from a ticker at hardware cadence
package output

import (
	"sync"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// NullConfig configures the null backend
type NullConfig struct {
	// Realtime runs a goroutine that pulls one period per period duration.
	// When false the device only fills on Pump.
	Realtime bool

	// OpenError makes every Open fail with a DeviceError wrapping it
	OpenError error

	// Sink receives a copy of every filled period (may be nil)
	Sink func(period []byte)
}

// Null is a backend whose devices discard (or hand to Sink) what they pull
type Null struct {
	config NullConfig

	mu      sync.Mutex
	devices []*NullDevice
	last    *NullDevice
	closed  bool
}

// NewNull creates a null backend
func NewNull(config NullConfig) *Null {
	return &Null{config: config}
}

// Name returns "null"
func (n *Null) Name() string { return "null" }

// Open creates a software device
func (n *Null) Open(format audio.Format, config DeviceConfig) (Device, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, deviceError(n.Name(), "open", format, ErrClosed)
	}
	if n.config.OpenError != nil {
		return nil, deviceError(n.Name(), "open", format, n.config.OpenError)
	}
	if err := format.Validate(); err != nil {
		return nil, deviceError(n.Name(), "open", format, ErrUnsupportedFormat)
	}

	frames := config.bufferFrames()
	d := &NullDevice{
		format: format,
		frames: frames,
		period: time.Duration(frames) * time.Second / time.Duration(format.SampleRate),
		buf:    make([]byte, frames*format.FrameSize()),
		sink:   n.config.Sink,
		ticker: n.config.Realtime,
	}
	n.devices = append(n.devices, d)
	n.last = d
	return d, nil
}

// Close closes every device still open and marks the backend closed
func (n *Null) Close() error {
	n.mu.Lock()
	devices := n.devices
	n.devices = nil
	n.closed = true
	n.mu.Unlock()

	for _, d := range devices {
		_ = d.Close()
	}
	return nil
}

// Closed reports whether Close was called
func (n *Null) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// LastDevice returns the most recently opened device, or nil
func (n *Null) LastDevice() *NullDevice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// NullDevice is the device returned by Null.Open
type NullDevice struct {
	gate   gate
	format audio.Format
	frames int
	period time.Duration
	sink   func([]byte)
	ticker bool

	mu      sync.Mutex
	pumpMu  sync.Mutex
	buf     []byte
	started bool
	closed  bool
	closes  int
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Format returns the device format
func (d *NullDevice) Format() audio.Format { return d.format }

// RegisterFillCallback installs the pull function
func (d *NullDevice) RegisterFillCallback(fn FillFunc) { d.gate.register(fn) }

// Start enables the callback and, in realtime mode, starts the clock goroutine
func (d *NullDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return deviceError("null", "start", d.format, ErrClosed)
	}
	if d.started {
		return nil
	}
	d.started = true
	d.gate.open()

	if d.ticker {
		d.stopCh = make(chan struct{})
		d.doneCh = make(chan struct{})
		go d.clock(d.stopCh, d.doneCh)
	}
	return nil
}

// Stop disables the callback and waits for the last invocation
func (d *NullDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}
	d.started = false
	d.gate.close()

	if d.stopCh != nil {
		close(d.stopCh)
		<-d.doneCh
		d.stopCh, d.doneCh = nil, nil
	}
	return nil
}

// Close stops the device and releases it
func (d *NullDevice) Close() error {
	if err := d.Stop(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.closes++
	return nil
}

// Closed reports whether the device was closed
func (d *NullDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// CloseCount returns how many times the device was actually released
func (d *NullDevice) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// Started reports whether the callback is enabled
func (d *NullDevice) Started() bool {
	return d.gate.isRunning()
}

// Callbacks returns how many times the fill function was invoked
func (d *NullDevice) Callbacks() uint64 {
	return d.gate.calls.Load()
}

// Pump pulls frames through the callback as the backend thread would and
// returns the filled period. The returned slice is reused by the next Pump.
func (d *NullDevice) Pump(frames int) []byte {
	d.pumpMu.Lock()
	defer d.pumpMu.Unlock()

	n := frames * d.format.FrameSize()
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	out := d.buf[:n]
	d.gate.run(out)
	if d.sink != nil {
		d.sink(out)
	}
	return out
}

func (d *NullDevice) clock(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Pump(d.frames)
		case <-stop:
			return
		}
	}
}
