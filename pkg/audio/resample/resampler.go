// ABOUTME: Linear resampler for whole decoded clips
// ABOUTME: Stretches a clip to the device sample rate while keeping its duration
package resample

// Resampler converts interleaved clips between sample rates using linear
// interpolation
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	step       float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		step:       float64(inputRate) / float64(outputRate),
	}
}

// Frames returns the number of output frames for a clip of inputFrames,
// rounded up so no part of the clip is cut
func (r *Resampler) Frames(inputFrames int) int {
	if inputFrames <= 0 {
		return 0
	}
	in, out := int64(r.inputRate), int64(r.outputRate)
	return int((int64(inputFrames)*out + in - 1) / in)
}

// Resample writes the whole of input at the output rate into output and
// returns the number of samples written. Output positions past the last
// input frame repeat it.
func (r *Resampler) Resample(input []int32, output []int32) int {
	ch := r.channels
	inputFrames := len(input) / ch
	if inputFrames == 0 {
		return 0
	}

	frames := min(len(output)/ch, r.Frames(inputFrames))
	last := inputFrames - 1

	for i := 0; i < frames; i++ {
		pos := float64(i) * r.step
		idx := int(pos)
		dst := output[i*ch : (i+1)*ch]

		if idx >= last {
			copy(dst, input[last*ch:(last+1)*ch])
			continue
		}

		frac := pos - float64(idx)
		for c := range dst {
			a := float64(input[idx*ch+c])
			b := float64(input[(idx+1)*ch+c])
			dst[c] = int32(a*(1-frac) + b*frac)
		}
	}

	return frames * ch
}
