// ABOUTME: Headless device check for the output backends
// ABOUTME: Plays a generated sine tone through the mixer and reports mixer stats
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio/output"
	"github.com/Resonate-Protocol/playsound-go/pkg/mixer"
)

var (
	backendName  = flag.String("backend", "malgo", "Audio backend: "+strings.Join(output.Backends(), ", "))
	deviceName   = flag.String("device", "", "Playback device name (default: system default)")
	rate         = flag.Int("rate", 48000, "Sample rate in Hz")
	channels     = flag.Int("channels", 2, "Channel count")
	bits         = flag.Int("bits", 16, "Bit depth: 16, 24 or 32")
	bufferFrames = flag.Int("buffer-frames", output.DefaultBufferFrames, "Device period in frames")
	frequency    = flag.Float64("frequency", 440, "Tone frequency in Hz")
	duration     = flag.Duration("duration", 2*time.Second, "Tone length")
	amplitude    = flag.Float64("amplitude", 0.5, "Tone amplitude (0-1)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	format := audio.Format{SampleRate: *rate, Channels: *channels, BitDepth: *bits}
	if err := format.Validate(); err != nil {
		log.Fatalf("Invalid format: %v", err)
	}

	fmt.Println("=== Tone Check ===")
	fmt.Printf("Backend: %s\n", *backendName)
	fmt.Printf("Format:  %s\n", format)
	fmt.Printf("Tone:    %.1f Hz for %s\n", *frequency, *duration)
	fmt.Println()

	if err := run(format); err != nil {
		log.Printf("Tone check failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Tone check complete")
}

func run(format audio.Format) error {
	backend, err := output.New(*backendName)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("Warning: failed to close backend: %v", err)
		}
	}()

	device, err := backend.Open(format, output.DeviceConfig{
		BufferFrames: *bufferFrames,
		DeviceName:   *deviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Printf("Warning: failed to close device: %v", err)
		}
	}()

	mix, err := mixer.New(format, mixer.Config{ChunkFrames: *bufferFrames})
	if err != nil {
		return err
	}
	defer mix.Close()

	src, err := mixer.NewSource(mixer.Tone(format, *frequency, *duration, *amplitude), format)
	if err != nil {
		return err
	}
	if _, err := mix.AddSource(src); err != nil {
		return err
	}

	device.RegisterFillCallback(mix.FillBuffer)
	if err := device.Start(); err != nil {
		return err
	}

	start := time.Now()
	deadline := start.Add(*duration + time.Second)
	for mix.ActiveCount() > 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("tone still playing after %s (cursor at frame %d of %d)",
				time.Since(start).Round(time.Millisecond), src.Cursor(), src.Frames())
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := device.Stop(); err != nil {
		return err
	}

	stats := mix.Stats()
	log.Printf("Played %d frames in %s (fills: %d, clipped: %d, dropped: %d)",
		src.Frames(), time.Since(start).Round(time.Millisecond), stats.Fills, stats.Clipped, stats.Dropped)
	return nil
}
