// ABOUTME: Tests for whole-buffer format conversion
// ABOUTME: Covers channel mapping and combined rate conversion
package resample

import (
	"errors"
	"slices"
	"testing"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
)

func TestMapChannels(t *testing.T) {
	tests := []struct {
		name     string
		in       []int32
		from, to int
		want     []int32
	}{
		{"identity", []int32{1, 2, 3, 4}, 2, 2, []int32{1, 2, 3, 4}},
		{"mono to stereo", []int32{1, 2}, 1, 2, []int32{1, 1, 2, 2}},
		{"stereo to mono", []int32{10, 20, -4, 4}, 2, 1, []int32{15, 0}},
		{"stereo to quad", []int32{1, 2}, 2, 4, []int32{1, 2, 0, 0}},
		{"quad to stereo", []int32{1, 2, 3, 4}, 4, 2, []int32{1, 2}},
		{"partial frame dropped", []int32{1, 2, 3}, 2, 1, []int32{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapChannels(tt.in, tt.from, tt.to)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConvertSameFormat(t *testing.T) {
	buf := &audio.Buffer{Format: audio.DefaultFormat, Samples: []int32{1, 2, 3, 4}}

	out, err := Convert(buf, audio.DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(out.Samples, buf.Samples) {
		t.Errorf("expected unchanged samples, got %v", out.Samples)
	}
}

func TestConvertRateAndChannels(t *testing.T) {
	src := audio.Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	buf := &audio.Buffer{Format: src, Samples: ramp(100, 256)}

	out, err := Convert(buf, audio.DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}

	if out.Format.SampleRate != 48000 || out.Format.Channels != 2 {
		t.Errorf("unexpected format %v", out.Format)
	}
	if out.Format.BitDepth != 16 {
		t.Errorf("bit depth should be preserved, got %d", out.Format.BitDepth)
	}
	// 100 mono frames at 24kHz become 200 stereo frames at 48kHz
	if frames := out.Frames(); frames != 200 {
		t.Errorf("expected 200 frames, got %d", frames)
	}
	for f := 0; f < out.Frames(); f++ {
		if out.Samples[f*2] != out.Samples[f*2+1] {
			t.Fatalf("frame %d: channels differ", f)
		}
	}
}

func TestConvertSingleFrame(t *testing.T) {
	buf := &audio.Buffer{
		Format:  audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16},
		Samples: []int32{5, 6},
	}

	out, err := Convert(buf, audio.DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}
	// One frame at 44.1kHz lasts two periods at 48kHz
	if !slices.Equal(out.Samples, []int32{5, 6, 5, 6}) {
		t.Errorf("expected single frame held, got %v", out.Samples)
	}
}

func TestConvertInvalid(t *testing.T) {
	buf := &audio.Buffer{Format: audio.Format{SampleRate: 0, Channels: 2, BitDepth: 16}}
	if _, err := Convert(buf, audio.DefaultFormat); !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
