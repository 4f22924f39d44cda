// ABOUTME: Audio type definitions
// ABOUTME: Defines the playback format, decoded buffers and sample codecs
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// 16-bit audio range constants
	Max16Bit = math.MaxInt16
	Min16Bit = math.MinInt16

	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// 32-bit audio range constants
	Max32Bit = math.MaxInt32
	Min32Bit = math.MinInt32
)

var (
	// ErrInvalidFormat is returned by Format.Validate
	ErrInvalidFormat = errors.New("invalid audio format")
)

// DefaultFormat is 48kHz, 16-bit stereo
var DefaultFormat = Format{SampleRate: 48000, Channels: 2, BitDepth: 16}

// Format describes a PCM sample format. Samples are signed little-endian,
// interleaved by channel.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate reports whether the format can be played
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidFormat, f.Channels)
	}
	switch f.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit depth %d (supported: 16, 24, 32)", ErrInvalidFormat, f.BitDepth)
	}
	return nil
}

// BytesPerSample returns the size of one sample of one channel
func (f Format) BytesPerSample() int {
	return f.BitDepth / 8
}

// FrameSize returns the size of one frame (one sample per channel)
func (f Format) FrameSize() int {
	return f.BytesPerSample() * f.Channels
}

// MaxSample returns the largest representable sample value
func (f Format) MaxSample() int64 {
	switch f.BitDepth {
	case 16:
		return Max16Bit
	case 24:
		return Max24Bit
	default:
		return Max32Bit
	}
}

// MinSample returns the smallest representable sample value
func (f Format) MinSample() int64 {
	switch f.BitDepth {
	case 16:
		return Min16Bit
	case 24:
		return Min24Bit
	default:
		return Min32Bit
	}
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// Buffer represents decoded PCM audio.
// Samples hold values in the 24-bit range regardless of the source depth.
type Buffer struct {
	Format  Format
	Samples []int32
}

// Frames returns the number of complete frames in the buffer
func (b *Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	// Take lower 24 bits, pack little-endian
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF // Set upper 8 bits to 1 for negative values
	}
	return val
}

// ReadSample decodes one native-depth sample from the front of b
func ReadSample(b []byte, bitDepth int) int32 {
	switch bitDepth {
	case 16:
		return int32(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		return SampleFrom24Bit([3]byte{b[0], b[1], b[2]})
	default:
		return int32(binary.LittleEndian.Uint32(b))
	}
}

// PutSample encodes one native-depth sample into the front of b
func PutSample(b []byte, bitDepth int, sample int32) {
	switch bitDepth {
	case 16:
		binary.LittleEndian.PutUint16(b, uint16(int16(sample)))
	case 24:
		b[0] = byte(sample)
		b[1] = byte(sample >> 8)
		b[2] = byte(sample >> 16)
	default:
		binary.LittleEndian.PutUint32(b, uint32(sample))
	}
}

// Clamp saturates v to the range of the given bit depth
func Clamp(v int64, bitDepth int) int32 {
	var lo, hi int64
	switch bitDepth {
	case 16:
		lo, hi = Min16Bit, Max16Bit
	case 24:
		lo, hi = Min24Bit, Max24Bit
	default:
		lo, hi = Min32Bit, Max32Bit
	}
	if v > hi {
		return int32(hi)
	}
	if v < lo {
		return int32(lo)
	}
	return int32(v)
}
