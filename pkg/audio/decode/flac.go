// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC frames with mewkiz/flac and interleaves the subframes
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes native FLAC streams
type FLACDecoder struct{}

// Decode parses every frame of the stream
func (FLACDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if bitDepth > 32 {
		return nil, fmt.Errorf("%w: flac bit depth %d", ErrUnsupported, bitDepth)
	}

	samples := make([]int32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse flac frame: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, scaleTo24(frame.Subframes[ch].Samples[i], bitDepth))
			}
		}
	}

	depth := 16
	if bitDepth > 16 {
		depth = 24
	}
	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   depth,
		},
		Samples: samples,
	}, nil
}
