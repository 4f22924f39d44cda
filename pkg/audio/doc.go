// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the fundamental types shared by the playback engine.
//
// This package defines:
//   - Format: sample rate, channel count and bit depth of a PCM stream
//   - Buffer: decoded PCM audio held as int32 samples in the 24-bit range
//
// It also provides sample codecs for 16, 24 and 32-bit little-endian PCM
// and a saturating Clamp used by the mixer.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 48000,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//	if err := format.Validate(); err != nil {
//	    return err
//	}
//
//	// Convert 16-bit sample to 24-bit range
//	sample24 := audio.SampleFromInt16(sample16)
package audio
