// ABOUTME: Entry point for the PlaySound demo application
// ABOUTME: Parses CLI flags, initializes the audio engine and runs the TUI
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/playsound-go/internal/assets"
	"github.com/Resonate-Protocol/playsound-go/internal/ui"
	"github.com/Resonate-Protocol/playsound-go/internal/version"
	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/Resonate-Protocol/playsound-go/pkg/engine"
	"github.com/Resonate-Protocol/playsound-go/pkg/resource"
)

var (
	backend      = flag.String("backend", engine.DefaultBackend, "Audio backend: malgo, oto, portaudio or null")
	device       = flag.String("device", "", "Playback device name (default: system default)")
	rate         = flag.Int("rate", 48000, "Device sample rate in Hz")
	channels     = flag.Int("channels", 2, "Device channel count")
	bits         = flag.Int("bits", 16, "Device bit depth: 16, 24 or 32")
	bufferFrames = flag.Int("buffer-frames", 1024, "Device period in frames")
	volume       = flag.Int("volume", 100, "Initial volume (0-100)")
	sound        = flag.String("sound", resource.WhoopKey, "Resource key or path of an audio file to play")
	logFile      = flag.String("log-file", "playsound.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, play once and log to stdout")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	format := audio.Format{SampleRate: *rate, Channels: *channels, BitDepth: *bits}
	eng := engine.New(engine.Config{
		Backend:      *backend,
		DeviceName:   *device,
		Format:       format,
		BufferFrames: *bufferFrames,
		Volume:       *volume,
		Muted:        *volume == 0,
	})
	defer func() {
		if err := eng.Dispose(); err != nil {
			log.Printf("Warning: failed to dispose audio engine: %v", err)
		}
		log.Printf("%s stopped", version.Product)
	}()

	provider, name := resolveSound(*sound)
	startErr := initialize(eng, provider, name)

	if useTUI {
		prog := ui.New(eng, ui.Options{
			Sound:      *sound,
			Backend:    *backend,
			Format:     eng.Format(),
			Volume:     eng.Volume(),
			Muted:      eng.Muted(),
			StartupErr: startErr,
		})
		if _, err := prog.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		return
	}

	if startErr != nil {
		log.Printf("Audio system error: %v", startErr)
		return
	}
	runHeadless(eng)
}

// resolveSound maps the -sound flag to a provider and a resource name
func resolveSound(value string) (resource.Provider, string) {
	if r, ok := resource.ByKey(strings.ToUpper(value)); ok {
		return assets.Sounds(), r.Path
	}
	return resource.NewFS(os.DirFS(filepath.Dir(value)), ""), filepath.Base(value)
}

// initialize opens the sound and brings the engine to Ready
func initialize(eng *engine.Engine, provider resource.Provider, name string) error {
	rc, err := provider.Open(name)
	if err != nil {
		log.Printf("Failed to open sound %q: %v", name, err)
		return err
	}
	defer func() { _ = rc.Close() }()

	if err := eng.Initialize(rc); err != nil {
		log.Printf("Failed to initialize audio engine: %v", err)
		return err
	}
	return nil
}

// runHeadless plays the clip once and returns when it ends or on a signal
func runHeadless(eng *engine.Engine) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := eng.Play(); err != nil {
		log.Printf("Playback failed: %v", err)
		return
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received")
			return
		case <-ticker.C:
			if !eng.Active() {
				log.Printf("Playback finished")
				return
			}
		}
	}
}
