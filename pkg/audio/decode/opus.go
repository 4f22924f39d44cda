// ABOUTME: Ogg Opus decoder
// ABOUTME: Decodes Ogg-encapsulated Opus with the libopusfile stream API
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// Opus always decodes at 48kHz
const opusSampleRate = 48000

// opusFrameSize is the largest frame (120ms at 48kHz) per channel
const opusFrameSize = 5760

// OpusDecoder decodes Ogg Opus streams
type OpusDecoder struct{}

// Decode reads the whole stream
func (OpusDecoder) Decode(r io.Reader) (*audio.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading opus data: %w", err)
	}

	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create opus stream: %w", err)
	}
	defer stream.Close()

	pcm16 := make([]int16, opusFrameSize*channels)
	var samples []int32
	for {
		n, err := stream.Read(pcm16)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}

		// n is samples per channel
		for _, v := range pcm16[:n*channels] {
			samples = append(samples, audio.SampleFromInt16(v))
		}
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}

// opusChannels reads the channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	i := bytes.Index(data, []byte("OpusHead"))
	// magic(8) version(1) channels(1)
	if i < 0 || i+10 > len(data) {
		return 0, fmt.Errorf("%w: missing OpusHead", ErrUnsupported)
	}
	channels := int(data[i+9])
	if channels < 1 || channels > 2 {
		return 0, fmt.Errorf("%w: opus with %d channels", ErrUnsupported, channels)
	}
	return channels, nil
}
