// ABOUTME: Sine tone generator producing pre-loaded PCM clips
// ABOUTME: Used for device checks and as a deterministic test signal
package mixer

import (
	"math"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

// Tone renders a sine wave of the given frequency and duration in format.
// amplitude is a fraction of full scale and is clamped to [0, 1].
func Tone(format audio.Format, frequency float64, duration time.Duration, amplitude float64) []byte {
	amplitude = math.Max(0, math.Min(1, amplitude))

	frames := int(duration * time.Duration(format.SampleRate) / time.Second)
	frameSize := format.FrameSize()
	bps := format.BytesPerSample()
	peak := float64(format.MaxSample()) * amplitude

	out := make([]byte, frames*frameSize)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(format.SampleRate)
		value := int32(math.Sin(2*math.Pi*frequency*t) * peak)

		// Duplicate to all channels
		for ch := 0; ch < format.Channels; ch++ {
			audio.PutSample(out[i*frameSize+ch*bps:], format.BitDepth, value)
		}
	}
	return out
}
