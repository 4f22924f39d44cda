// ABOUTME: Engine package documentation
// ABOUTME: Describes the lifecycle and teardown order
// Package engine is the lifecycle controller tying a decoded clip, a mixer
// and an output device together.
//
// An Engine moves from Uninitialized to Ready on Initialize, between
// Playing and Stopped on Play and Stop, and to Disposed on Dispose. Dispose
// stops the device and waits for its last callback before any audio memory
// is released.
//
// Example:
//
//	eng := engine.New(engine.Config{Backend: "malgo"})
//	defer eng.Dispose()
//	if err := eng.Initialize(file); err != nil {
//		return err
//	}
//	eng.Play()
package engine
