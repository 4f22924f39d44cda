// ABOUTME: Decoder interface and container sniffing
// ABOUTME: Decode reads a whole clip and dispatches to the matching codec
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

var (
	// ErrUnknownFormat is returned when no decoder recognizes the data
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrUnsupported is returned for a recognized container with an
	// encoding this package cannot decode
	ErrUnsupported = errors.New("unsupported audio encoding")
)

// Codec names a container/codec pair
type Codec string

const (
	WAV    Codec = "wav"
	AIFF   Codec = "aiff"
	MP3    Codec = "mp3"
	FLAC   Codec = "flac"
	Vorbis Codec = "vorbis"
	Opus   Codec = "opus"
	PCM    Codec = "pcm"
)

// Decoder decodes a complete clip into memory
type Decoder interface {
	// Decode reads r to the end and returns the decoded samples
	Decode(r io.Reader) (*audio.Buffer, error)
}

// ForCodec returns the decoder for a sniffable codec. Raw PCM carries no
// header and needs NewPCM instead.
func ForCodec(codec Codec) (Decoder, error) {
	switch codec {
	case WAV:
		return WAVDecoder{}, nil
	case AIFF:
		return AIFFDecoder{}, nil
	case MP3:
		return MP3Decoder{}, nil
	case FLAC:
		return FLACDecoder{}, nil
	case Vorbis:
		return VorbisDecoder{}, nil
	case Opus:
		return OpusDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: codec %q", ErrUnknownFormat, codec)
	}
}

// Sniff identifies the codec from the first bytes of a clip
func Sniff(header []byte) (Codec, error) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return WAV, nil
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return AIFF, nil
	case bytes.HasPrefix(header, []byte("fLaC")):
		return FLAC, nil
	case bytes.HasPrefix(header, []byte("OggS")):
		// The first page carries the codec identification header
		if bytes.Contains(header, []byte("OpusHead")) {
			return Opus, nil
		}
		if bytes.Contains(header, []byte("\x01vorbis")) {
			return Vorbis, nil
		}
		return "", fmt.Errorf("%w: ogg stream with unknown codec", ErrUnsupported)
	case bytes.HasPrefix(header, []byte("ID3")):
		return MP3, nil
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return MP3, nil
	}
	return "", ErrUnknownFormat
}

// sniffLen covers the first Ogg page including its identification header
const sniffLen = 512

// Decode reads a whole clip from r, detects its codec and decodes it
func Decode(r io.Reader) (*audio.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	codec, err := Sniff(data[:min(len(data), sniffLen)])
	if err != nil {
		return nil, err
	}

	dec, err := ForCodec(codec)
	if err != nil {
		return nil, err
	}

	buf, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", codec, err)
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%s: no audio frames decoded", codec)
	}
	return buf, nil
}

// scaleTo24 converts a sample of the given depth to the 24-bit range
func scaleTo24(v int32, bitDepth int) int32 {
	switch {
	case bitDepth == 24:
		return v
	case bitDepth < 24:
		return v << (24 - bitDepth)
	default:
		return v >> (bitDepth - 24)
	}
}

// readSeeker returns r as an io.ReadSeeker, buffering it when needed
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
