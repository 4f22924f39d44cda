// ABOUTME: Mixer package documentation
// ABOUTME: Describes the source lifecycle and the real-time contract of FillBuffer
// Package mixer sums pre-loaded PCM sources into device buffers.
//
// Sources are submitted from any goroutine with AddSource and picked up by
// the next FillBuffer call. FillBuffer is meant to be registered as a device
// fill callback: it takes no locks and does not allocate.
//
// A live source can be paused and restarted from its first frame in place.
// Only AddSource goes through the bounded command queue, so replaying a
// clip never runs out of queue capacity.
//
// Example:
//
//	m, _ := mixer.New(audio.DefaultFormat, mixer.Config{})
//	src, _ := mixer.NewSource(pcm, audio.DefaultFormat)
//	id, _ := m.AddSource(src)
//	device.RegisterFillCallback(m.FillBuffer)
package mixer
