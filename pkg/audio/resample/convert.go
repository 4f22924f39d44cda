// ABOUTME: Whole-buffer conversion to a target channel count and sample rate
// ABOUTME: Maps channels first, then resamples with the linear resampler
package resample

import (
	"fmt"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// Convert returns buf with target's sample rate and channel count. The bit
// depth is left unchanged; samples stay in the 24-bit range.
func Convert(buf *audio.Buffer, target audio.Format) (*audio.Buffer, error) {
	if buf.Format.Channels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: source %s", audio.ErrInvalidFormat, buf.Format)
	}
	if target.Channels <= 0 || target.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: target %s", audio.ErrInvalidFormat, target)
	}

	samples := MapChannels(buf.Samples, buf.Format.Channels, target.Channels)

	if buf.Format.SampleRate != target.SampleRate && len(samples) > 0 {
		r := New(buf.Format.SampleRate, target.SampleRate, target.Channels)
		out := make([]int32, r.Frames(len(samples)/target.Channels)*target.Channels)
		samples = out[:r.Resample(samples, out)]
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: target.SampleRate,
			Channels:   target.Channels,
			BitDepth:   buf.Format.BitDepth,
		},
		Samples: samples,
	}, nil
}

// MapChannels converts interleaved samples between channel counts.
// Mono is duplicated to every output channel, downmixing to mono averages
// all channels, and other layouts keep the shared channels and fill the
// rest with silence.
func MapChannels(samples []int32, from, to int) []int32 {
	if from == to {
		return samples
	}

	frames := len(samples) / from
	out := make([]int32, frames*to)

	for f := 0; f < frames; f++ {
		in := samples[f*from : (f+1)*from]
		dst := out[f*to : (f+1)*to]

		switch {
		case from == 1:
			for ch := range dst {
				dst[ch] = in[0]
			}
		case to == 1:
			var sum int64
			for _, v := range in {
				sum += int64(v)
			}
			dst[0] = int32(sum / int64(from))
		default:
			copy(dst, in)
		}
	}
	return out
}
