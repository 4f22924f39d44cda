// ABOUTME: AIFF decoder backed by go-audio/aiff
// ABOUTME: Reads the sound data chunk in blocks into memory
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// aiffBlock is the number of samples read per PCMBuffer call
const aiffBlock = 4096

// AIFFDecoder decodes AIFF and uncompressed AIFC files
type AIFFDecoder struct{}

// Decode reads all sound data
func (AIFFDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid aiff file", ErrUnknownFormat)
	}
	dec.ReadInfo()

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: aiff bit depth %d", ErrUnsupported, bitDepth)
	}

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("%w: aiff without COMM chunk", ErrUnsupported)
	}

	block := &goaudio.IntBuffer{Data: make([]int, aiffBlock), Format: format}
	var samples []int32
	for {
		n, err := dec.PCMBuffer(block)
		for _, v := range block.Data[:n] {
			samples = append(samples, scaleTo24(int32(v), bitDepth))
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read aiff pcm: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: format.SampleRate,
			Channels:   format.NumChannels,
			BitDepth:   max(bitDepth, 16),
		},
		Samples: samples,
	}, nil
}
