// ABOUTME: WAV decoder backed by go-audio/wav
// ABOUTME: Supports integer PCM at 8, 16, 24 and 32 bits
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// WAVDecoder decodes RIFF/WAVE files
type WAVDecoder struct{}

// Decode reads the whole PCM chunk
func (WAVDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav file", ErrUnknownFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav format tag %d", ErrUnsupported, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: wav bit depth %d", ErrUnsupported, bitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav pcm: %w", err)
	}

	samples := make([]int32, len(pcm.Data))
	for i, v := range pcm.Data {
		if bitDepth == 8 {
			// 8bit values are unsigned
			v -= 128
		}
		samples[i] = scaleTo24(int32(v), bitDepth)
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   max(bitDepth, 16),
		},
		Samples: samples,
	}, nil
}
