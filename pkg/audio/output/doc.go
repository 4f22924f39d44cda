// ABOUTME: Audio output package for pull-based playback
// ABOUTME: Provides Backend/Device interfaces and malgo, oto, PortAudio and null backends
// Package output provides playback devices driven by a real-time fill callback.
//
// A Backend owns the driver context (miniaudio, oto, PortAudio). Each Device
// it opens runs at one fixed Format and calls the registered FillFunc from a
// backend thread whenever the hardware needs another period. Stop waits for
// an in-flight callback to return, so buffers read by the callback can be
// released once Stop has returned.
//
// Example:
//
//	backend, err := output.New("malgo")
//	dev, err := backend.Open(audio.DefaultFormat, output.DeviceConfig{})
//	dev.RegisterFillCallback(mixer.FillBuffer)
//	err = dev.Start()
//	...
//	dev.Stop()
//	dev.Close()
//	backend.Close()
package output
