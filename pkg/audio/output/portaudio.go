//go:build portaudio

// ABOUTME: PortAudio playback backend
// ABOUTME: Cross-platform audio output using PortAudio stream callbacks
package output

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio backend implementation
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudio creates a new PortAudio backend
func NewPortAudio() Backend {
	return &PortAudio{}
}

// Name returns "portaudio"
func (p *PortAudio) Name() string { return "portaudio" }

// Open initializes PortAudio and opens the default output stream
func (p *PortAudio) Open(format audio.Format, config DeviceConfig) (Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if format.BitDepth != 16 {
		return nil, deviceError(p.Name(), "open", format,
			fmt.Errorf("%w: portaudio backend only supports 16-bit output", ErrUnsupportedFormat))
	}

	if !p.initialized {
		if err := portaudio.Initialize(); err != nil {
			return nil, deviceError(p.Name(), "initialize", format, err)
		}
		p.initialized = true
	}

	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		return nil, deviceError(p.Name(), "open", format, fmt.Errorf("%w: %v", ErrNoDevice, err))
	}

	frames := config.bufferFrames()
	d := &PortAudioDevice{
		format:  format,
		scratch: make([]byte, frames*format.FrameSize()),
	}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), frames, d.callback)
	if err != nil {
		return nil, deviceError(p.Name(), "open stream", format, err)
	}
	d.stream = stream

	return d, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

// PortAudioDevice wraps one PortAudio output stream
type PortAudioDevice struct {
	gate    gate
	format  audio.Format
	scratch []byte

	mu      sync.Mutex
	stream  *portaudio.Stream
	started bool
}

// Format returns the device format
func (d *PortAudioDevice) Format() audio.Format { return d.format }

// RegisterFillCallback installs the pull function
func (d *PortAudioDevice) RegisterFillCallback(fn FillFunc) { d.gate.register(fn) }

// callback runs on the PortAudio thread
func (d *PortAudioDevice) callback(out []int16) {
	n := len(out) * 2
	if n > len(d.scratch) {
		// PortAudio passes framesPerBuffer frames, so this only happens
		// when the host ignores the requested period
		clear(out)
		return
	}
	buf := d.scratch[:n]
	d.gate.run(buf)
	for i := range out {
		out[i] = int16(audio.ReadSample(buf[i*2:], 16))
	}
}

// Start starts the stream
func (d *PortAudioDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return deviceError("portaudio", "start", d.format, ErrClosed)
	}
	if d.started {
		return nil
	}
	d.gate.open()
	if err := d.stream.Start(); err != nil {
		d.gate.close()
		return deviceError("portaudio", "start", d.format, err)
	}
	d.started = true
	return nil
}

// Stop stops the stream
func (d *PortAudioDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *PortAudioDevice) stopLocked() error {
	if !d.started {
		return nil
	}
	d.started = false
	d.gate.close()
	if err := d.stream.Stop(); err != nil {
		return deviceError("portaudio", "stop", d.format, err)
	}
	return nil
}

// Close closes the stream
func (d *PortAudioDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}
	stopErr := d.stopLocked()
	err := d.stream.Close()
	d.stream = nil
	if err != nil {
		return deviceError("portaudio", "close", d.format, err)
	}
	return stopErr
}
