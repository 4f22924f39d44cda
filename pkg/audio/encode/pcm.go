// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int32 samples to 16, 24 or 32-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder for the bit depth of format
func NewPCM(format audio.Format) (*PCMEncoder, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("unsupported pcm format: %w", err)
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
	}, nil
}

// Encode converts int32 samples in the 24-bit range to PCM bytes
func (e *PCMEncoder) Encode(samples []int32) ([]byte, error) {
	switch e.bitDepth {
	case 24:
		// 24-bit PCM: 3 bytes per sample
		output := make([]byte, len(samples)*3)
		for i, sample := range samples {
			bytes := audio.SampleTo24Bit(sample)
			output[i*3] = bytes[0]
			output[i*3+1] = bytes[1]
			output[i*3+2] = bytes[2]
		}
		return output, nil
	case 32:
		// 32-bit PCM: left-justify the 24-bit value
		output := make([]byte, len(samples)*4)
		for i, sample := range samples {
			binary.LittleEndian.PutUint32(output[i*4:], uint32(sample<<8))
		}
		return output, nil
	default:
		// 16-bit PCM: 2 bytes per sample
		output := make([]byte, len(samples)*2)
		for i, sample := range samples {
			sample16 := audio.SampleToInt16(sample)
			binary.LittleEndian.PutUint16(output[i*2:], uint16(sample16))
		}
		return output, nil
	}
}

// Buffer encodes buf for playback in format. buf must already have
// format's sample rate and channel count.
func Buffer(buf *audio.Buffer, format audio.Format) ([]byte, error) {
	if buf.Format.SampleRate != format.SampleRate || buf.Format.Channels != format.Channels {
		return nil, fmt.Errorf("buffer is %s, cannot encode as %s", buf.Format, format)
	}
	encoder, err := NewPCM(format)
	if err != nil {
		return nil, err
	}
	return encoder.Encode(buf.Samples)
}
