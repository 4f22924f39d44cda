// ABOUTME: Tests for the null backend
// ABOUTME: Covers open failures, idempotent start/stop/close and realtime pulling
package output

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

func TestNullOpenError(t *testing.T) {
	want := errors.New("device busy")
	backend := NewNull(NullConfig{OpenError: want})

	_, err := backend.Open(audio.DefaultFormat, DeviceConfig{})
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped open error, got %v", err)
	}
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("expected DeviceError, got %T", err)
	}
	if devErr.Backend != "null" {
		t.Errorf("expected backend null, got %s", devErr.Backend)
	}
}

func TestNullRejectsInvalidFormat(t *testing.T) {
	backend := NewNull(NullConfig{})
	_, err := backend.Open(audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 12}, DeviceConfig{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNullPump(t *testing.T) {
	backend := NewNull(NullConfig{})
	dev, err := backend.Open(audio.DefaultFormat, DeviceConfig{BufferFrames: 64})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	nd := dev.(*NullDevice)

	nd.RegisterFillCallback(func(out []byte) {
		for i := range out {
			out[i] = 1
		}
	})

	// Not started yet: silence
	out := nd.Pump(16)
	if len(out) != 16*4 {
		t.Fatalf("expected %d bytes, got %d", 16*4, len(out))
	}
	if out[0] != 0 {
		t.Error("expected silence before Start")
	}

	if err := nd.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	out = nd.Pump(16)
	if out[0] != 1 {
		t.Error("expected fill output after Start")
	}
	if nd.Callbacks() != 1 {
		t.Errorf("expected 1 callback, got %d", nd.Callbacks())
	}

	if err := nd.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	out = nd.Pump(16)
	if out[0] != 0 {
		t.Error("expected silence after Stop")
	}
}

func TestNullIdempotentLifecycle(t *testing.T) {
	backend := NewNull(NullConfig{})
	dev, err := backend.Open(audio.DefaultFormat, DeviceConfig{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	nd := dev.(*NullDevice)

	for i := 0; i < 3; i++ {
		if err := nd.Start(); err != nil {
			t.Fatalf("Start #%d failed: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := nd.Stop(); err != nil {
			t.Fatalf("Stop #%d failed: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := nd.Close(); err != nil {
			t.Fatalf("Close #%d failed: %v", i, err)
		}
	}
	if nd.CloseCount() != 1 {
		t.Errorf("expected device released once, got %d", nd.CloseCount())
	}
	if err := nd.Start(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed when starting a closed device, got %v", err)
	}
}

func TestNullBackendCloseClosesDevices(t *testing.T) {
	backend := NewNull(NullConfig{})
	dev, err := backend.Open(audio.DefaultFormat, DeviceConfig{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !dev.(*NullDevice).Closed() {
		t.Error("expected device closed with backend")
	}
	if _, err := backend.Open(audio.DefaultFormat, DeviceConfig{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after backend close, got %v", err)
	}
}

func TestNullRealtimeClock(t *testing.T) {
	var periods atomic.Int32
	backend := NewNull(NullConfig{
		Realtime: true,
		Sink:     func([]byte) { periods.Add(1) },
	})
	format := audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 16}

	// 48 frames at 48kHz = 1ms period
	dev, err := backend.Open(format, DeviceConfig{BufferFrames: 48})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dev.Close()

	var fills atomic.Int32
	dev.RegisterFillCallback(func(out []byte) { fills.Add(1) })

	if err := dev.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fills.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := dev.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if fills.Load() < 3 {
		t.Fatalf("expected realtime clock to fill at least 3 periods, got %d", fills.Load())
	}

	after := fills.Load()
	time.Sleep(10 * time.Millisecond)
	if fills.Load() != after {
		t.Error("fill callback ran after Stop returned")
	}
	if periods.Load() < after {
		t.Errorf("expected sink to see every period (%d), got %d", after, periods.Load())
	}
}
