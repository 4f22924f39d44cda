// ABOUTME: Malgo-based playback backend with 16/24/32-bit support
// ABOUTME: Uses miniaudio via malgo; its data callback drives the fill function
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo backend using the malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
}

// NewMalgo creates a new Malgo backend. The miniaudio context is created
// lazily by the first Open.
func NewMalgo() Backend {
	return &Malgo{}
}

// Name returns "malgo"
func (m *Malgo) Name() string { return "malgo" }

// Open initializes a playback device with the specified format
func (m *Malgo) Open(format audio.Format, config DeviceConfig) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := format.Validate(); err != nil {
		return nil, deviceError(m.Name(), "open", format, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err))
	}

	sampleFormat, err := malgoFormat(format.BitDepth)
	if err != nil {
		return nil, deviceError(m.Name(), "open", format, err)
	}

	// Create malgo context if needed
	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return nil, deviceError(m.Name(), "init context", format, err)
		}
		m.malgoCtx = ctx
	}

	infos, err := m.malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, deviceError(m.Name(), "enumerate", format, err)
	}
	if len(infos) == 0 {
		return nil, deviceError(m.Name(), "open", format, ErrNoDevice)
	}

	// Configure device
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = sampleFormat
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(config.bufferFrames())
	deviceConfig.Alsa.NoMMap = 1

	if info, ok := pickDevice(infos, config.DeviceName); ok {
		deviceConfig.Playback.DeviceID = info.ID.Pointer()
		log.Printf("Using playback device: %s", info.Name())
	} else if config.DeviceName != "" {
		return nil, deviceError(m.Name(), "open", format, fmt.Errorf("%w: %q", ErrNoDevice, config.DeviceName))
	}

	d := &MalgoDevice{
		format:    format,
		frameSize: format.FrameSize(),
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			d.gate.run(pOutputSample[:int(frameCount)*d.frameSize])
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return nil, deviceError(m.Name(), "init device", format, err)
	}
	d.device = device

	log.Printf("Audio output opened: %s (malgo/%s)", format, formatName(sampleFormat))

	return d, nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil
	}
	err := m.malgoCtx.Uninit()
	m.malgoCtx.Free()
	m.malgoCtx = nil
	if err != nil {
		return fmt.Errorf("malgo context uninit: %w", err)
	}
	return nil
}

// MalgoDevice is a miniaudio playback device
type MalgoDevice struct {
	gate      gate
	format    audio.Format
	frameSize int

	mu      sync.Mutex
	device  *malgo.Device
	started bool
}

// Format returns the device format
func (d *MalgoDevice) Format() audio.Format { return d.format }

// RegisterFillCallback installs the pull function
func (d *MalgoDevice) RegisterFillCallback(fn FillFunc) { d.gate.register(fn) }

// Start starts the device
func (d *MalgoDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return deviceError("malgo", "start", d.format, ErrClosed)
	}
	if d.started {
		return nil
	}

	d.gate.open()
	if err := d.device.Start(); err != nil {
		d.gate.close()
		return deviceError("malgo", "start", d.format, err)
	}
	d.started = true
	return nil
}

// Stop stops the device after the last callback has returned
func (d *MalgoDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// stopLocked stops the device (must hold d.mu)
func (d *MalgoDevice) stopLocked() error {
	if !d.started {
		return nil
	}
	d.started = false
	d.gate.close()
	if err := d.device.Stop(); err != nil {
		return deviceError("malgo", "stop", d.format, err)
	}
	return nil
}

// Close stops and uninitializes the device
func (d *MalgoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return nil
	}
	if err := d.stopLocked(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	d.device.Uninit()
	d.device = nil
	return nil
}

// malgoFormat maps bit depth to malgo format
func malgoFormat(bitDepth int) (malgo.FormatType, error) {
	switch bitDepth {
	case 16:
		return malgo.FormatS16, nil
	case 24:
		return malgo.FormatS24, nil
	case 32:
		return malgo.FormatS32, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("%w: bit depth %d (supported: 16, 24, 32)", ErrUnsupportedFormat, bitDepth)
	}
}

// pickDevice returns the named device, or the system default when name is empty
func pickDevice(infos []malgo.DeviceInfo, name string) (malgo.DeviceInfo, bool) {
	for _, info := range infos {
		if name != "" && info.Name() == name {
			return info, true
		}
		if name == "" && info.IsDefault != 0 {
			return info, true
		}
	}
	return malgo.DeviceInfo{}, false
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatS24:
		return "S24"
	case malgo.FormatS32:
		return "S32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
