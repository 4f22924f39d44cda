// ABOUTME: Audio encoder package for encoding decoded samples to device PCM
// ABOUTME: Provides the PCM encoder for 16, 24 and 32-bit output
// Package encode converts int32 samples in 24-bit range to the packed
// little-endian PCM a playback device consumes.
//
// Example:
//
//	encoder, err := encode.NewPCM(format)
//	data, err := encoder.Encode(samples)
package encode
