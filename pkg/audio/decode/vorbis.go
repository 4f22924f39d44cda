// ABOUTME: Ogg Vorbis decoder backed by jfreymuth/oggvorbis
// ABOUTME: Converts float samples to the 24-bit integer range
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis streams
type VorbisDecoder struct{}

// Decode reads all packets of the stream
func (VorbisDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vorbis: %w", err)
	}

	samples := make([]int32, len(data))
	for i, v := range data {
		samples[i] = audio.Clamp(int64(float64(v)*audio.Max24Bit), 24)
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   24,
		},
		Samples: samples,
	}, nil
}
