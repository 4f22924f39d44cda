// ABOUTME: Raw PCM decoder
// ABOUTME: Decodes headerless little-endian 16, 24 and 32-bit PCM
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// PCMDecoder decodes raw interleaved PCM in a known format
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	return &PCMDecoder{format: format}, nil
}

// Decode converts PCM bytes to int32 samples. A trailing partial frame is dropped.
func (d *PCMDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm: %w", err)
	}

	bps := d.format.BytesPerSample()
	frameSize := d.format.FrameSize()
	numSamples := (len(data) / frameSize) * d.format.Channels

	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = scaleTo24(audio.ReadSample(data[i*bps:], d.format.BitDepth), d.format.BitDepth)
	}

	return &audio.Buffer{Format: d.format, Samples: samples}, nil
}
