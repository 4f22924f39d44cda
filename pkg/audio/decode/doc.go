// ABOUTME: Audio decoder package for whole-clip decoding
// ABOUTME: Provides Decoder interface and implementations for WAV, AIFF, MP3, FLAC, Vorbis, Opus and PCM
// Package decode turns encoded clips into audio.Buffer values.
//
// Supports: WAV, AIFF, MP3, FLAC, Ogg Vorbis, Ogg Opus and raw PCM.
//
// All decoders output int32 samples in 24-bit range for consistent
// processing, regardless of the source bit depth.
//
// Example:
//
//	buf, err := decode.Decode(file)
//	fmt.Println(buf.Format, buf.Frames())
package decode
