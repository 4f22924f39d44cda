// ABOUTME: Tests for the real-time mixer
// ABOUTME: Covers summing, clamping, removal, exhaustion, volume and concurrent submission
package mixer

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/playsound-go/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcm16 encodes samples as little-endian 16-bit PCM
func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// samples16 decodes little-endian 16-bit PCM
func samples16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

func newMonoMixer(t *testing.T, config Config) *Mixer {
	t.Helper()
	m, err := New(monoFormat, config)
	require.NoError(t, err)
	return m
}

func addPCM(t *testing.T, m *Mixer, samples ...int16) *Source {
	t.Helper()
	src, err := NewSource(pcm16(samples...), m.Format())
	require.NoError(t, err)
	_, err = m.AddSource(src)
	require.NoError(t, err)
	return src
}

func TestNewRejectsInvalidFormat(t *testing.T) {
	_, err := New(audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 12}, Config{})
	assert.ErrorIs(t, err, audio.ErrInvalidFormat)
}

func TestFillWithNoSourcesIsSilent(t *testing.T) {
	m := newMonoMixer(t, Config{})

	out := []byte{1, 2, 3, 4, 5, 6, 7}
	m.FillBuffer(out)

	assert.Equal(t, make([]byte, 7), out)
	assert.Equal(t, uint64(1), m.Stats().Fills)
}

func TestSingleSourceIsCopiedUnchanged(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 100, -200, 300, -400)

	out := make([]byte, 8)
	m.FillBuffer(out)

	assert.Equal(t, []int16{100, -200, 300, -400}, samples16(out))
}

func TestSourcesAreSummed(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 100, 200, 300)
	addPCM(t, m, 10, -20, 30)

	out := make([]byte, 6)
	m.FillBuffer(out)

	assert.Equal(t, []int16{110, 180, 330}, samples16(out))
}

func TestSumClampsInsteadOfWrapping(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 30000, -30000, 20000)
	addPCM(t, m, 30000, -30000, 20000)

	out := make([]byte, 6)
	m.FillBuffer(out)

	assert.Equal(t, []int16{32767, -32768, 32767}, samples16(out))
	assert.Equal(t, uint64(3), m.Stats().Clipped)
}

func TestClamp24Bit(t *testing.T) {
	format := audio.Format{SampleRate: 48000, Channels: 1, BitDepth: 24}
	m, err := New(format, Config{})
	require.NoError(t, err)

	data := make([]byte, 3)
	audio.PutSample(data, 24, audio.Max24Bit-10)
	for i := 0; i < 2; i++ {
		src, err := NewSource(append([]byte(nil), data...), format)
		require.NoError(t, err)
		_, err = m.AddSource(src)
		require.NoError(t, err)
	}

	out := make([]byte, 3)
	m.FillBuffer(out)
	assert.Equal(t, int32(audio.Max24Bit), audio.ReadSample(out, 24))
}

func TestSourceExhaustsMidFill(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1, 2, 3)
	assert.Equal(t, 1, m.ActiveCount())

	out := make([]byte, 10)
	m.FillBuffer(out)

	assert.Equal(t, []int16{1, 2, 3, 0, 0}, samples16(out))
	assert.True(t, src.Exhausted())
	assert.Equal(t, 0, m.ActiveCount())

	m.FillBuffer(out)
	assert.Equal(t, 0, m.Stats().Mixing)
	assert.Equal(t, make([]byte, 10), out)
}

func TestSourceSpansSeveralFills(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 1, 2, 3, 4, 5)

	out := make([]byte, 4)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1, 2}, samples16(out))
	m.FillBuffer(out)
	assert.Equal(t, []int16{3, 4}, samples16(out))
	m.FillBuffer(out)
	assert.Equal(t, []int16{5, 0}, samples16(out))
	assert.Equal(t, 0, m.ActiveCount())
}

func TestFillLargerThanChunk(t *testing.T) {
	m := newMonoMixer(t, Config{ChunkFrames: 2})
	addPCM(t, m, 1, 2, 3, 4, 5)
	addPCM(t, m, 10, 10, 10, 10, 10)

	out := make([]byte, 12)
	m.FillBuffer(out)

	assert.Equal(t, []int16{11, 12, 13, 14, 15, 0}, samples16(out))
}

func TestRemovalTakesEffectAtNextFill(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1, 2, 3, 4, 5, 6)

	out := make([]byte, 4)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1, 2}, samples16(out))

	m.RemoveSource(src.ID())
	assert.Equal(t, 0, m.ActiveCount())

	m.FillBuffer(out)
	assert.Equal(t, []int16{0, 0}, samples16(out))
	assert.Equal(t, 2, src.Cursor(), "removed source must not advance")
}

func TestRemoveBeforeFirstFill(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 7, 7)
	m.RemoveSource(src.ID())

	out := make([]byte, 4)
	m.FillBuffer(out)
	assert.Equal(t, []int16{0, 0}, samples16(out))
	assert.Equal(t, 0, m.Stats().Mixing)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1)

	m.RemoveSource(SourceID{})
	assert.Equal(t, 1, m.ActiveCount())

	m.FillBuffer(make([]byte, 4))
	m.RemoveSource(src.ID())
	m.RemoveSource(src.ID())
	assert.Equal(t, 0, m.ActiveCount())
}

func TestRestartRewindsAtNextFill(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1, 2, 3, 4, 5, 6)

	out := make([]byte, 4)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1, 2}, samples16(out))

	require.True(t, m.Restart(src.ID()))
	assert.Equal(t, 0, src.Cursor(), "pending restart reads as frame 0")
	assert.False(t, src.Exhausted())

	m.FillBuffer(out)
	assert.Equal(t, []int16{1, 2}, samples16(out))
	assert.Equal(t, 2, src.Cursor())
}

func TestRestartDoesNotUseQueue(t *testing.T) {
	m := newMonoMixer(t, Config{QueueSize: 2})
	src := addPCM(t, m, 1, 2, 3)

	for i := 0; i < 1000; i++ {
		require.True(t, m.Restart(src.ID()), "restart #%d", i)
	}

	// The queue still has room for new sources
	addPCM(t, m, 10, 10, 10)
	out := make([]byte, 6)
	m.FillBuffer(out)
	assert.Equal(t, []int16{11, 12, 13}, samples16(out))
}

func TestRestartCompletedOrRemoved(t *testing.T) {
	m := newMonoMixer(t, Config{})
	done := addPCM(t, m, 1)
	gone := addPCM(t, m, 2, 2)

	m.RemoveSource(gone.ID())
	m.FillBuffer(make([]byte, 4))

	assert.False(t, m.Restart(done.ID()), "completed source cannot restart")
	assert.False(t, m.Restart(gone.ID()), "removed source cannot restart")
	assert.False(t, m.Restart(SourceID{}))
}

func TestRestartBeforeFirstFill(t *testing.T) {
	m := newMonoMixer(t, Config{ChunkFrames: 2})
	src := addPCM(t, m, 1, 2)

	// Restart lands before the fill that would exhaust the source
	require.True(t, m.Restart(src.ID()))
	out := make([]byte, 8)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1, 2, 0, 0}, samples16(out))

	_, ok := m.Source(src.ID())
	assert.False(t, ok, "source completes once it plays out without a restart")
}

func TestPauseHoldsSlot(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1, 2, 3, 4)

	out := make([]byte, 2)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1}, samples16(out))

	require.True(t, m.Pause(src.ID()))
	assert.True(t, src.Paused())
	m.FillBuffer(out)
	assert.Equal(t, []int16{0}, samples16(out))
	assert.Equal(t, 1, src.Cursor(), "paused source must not advance")
	assert.Equal(t, 1, m.ActiveCount())

	require.True(t, m.Restart(src.ID()))
	assert.False(t, src.Paused())
	m.FillBuffer(out)
	assert.Equal(t, []int16{1}, samples16(out))

	assert.False(t, m.Pause(SourceID{}))
}

func TestAddSourceErrors(t *testing.T) {
	t.Run("format mismatch", func(t *testing.T) {
		m := newMonoMixer(t, Config{})
		src, err := NewSource(make([]byte, 8), audio.DefaultFormat)
		require.NoError(t, err)
		_, err = m.AddSource(src)
		assert.ErrorIs(t, err, ErrFormatMismatch)
		assert.Equal(t, 0, m.ActiveCount())
	})

	t.Run("nil source", func(t *testing.T) {
		m := newMonoMixer(t, Config{})
		_, err := m.AddSource(nil)
		assert.Error(t, err)
	})

	t.Run("too many sources", func(t *testing.T) {
		m := newMonoMixer(t, Config{MaxSources: 2})
		addPCM(t, m, 1)
		addPCM(t, m, 1)
		src, _ := NewSource(pcm16(1), monoFormat)
		_, err := m.AddSource(src)
		assert.ErrorIs(t, err, ErrTooManySources)
	})

	t.Run("queue full", func(t *testing.T) {
		m := newMonoMixer(t, Config{MaxSources: 10, QueueSize: 2})
		addPCM(t, m, 1)
		addPCM(t, m, 1)
		src, _ := NewSource(pcm16(1), monoFormat)
		_, err := m.AddSource(src)
		assert.ErrorIs(t, err, ErrQueueFull)

		// A fill drains the queue
		m.FillBuffer(make([]byte, 2))
		src, _ = NewSource(pcm16(1), monoFormat)
		_, err = m.AddSource(src)
		assert.NoError(t, err)
	})

	t.Run("resubmitted source", func(t *testing.T) {
		m := newMonoMixer(t, Config{})
		src := addPCM(t, m, 1, 2)
		_, err := m.AddSource(src)
		assert.ErrorIs(t, err, ErrSourceInUse)

		m.RemoveSource(src.ID())
		_, err = m.AddSource(src)
		assert.ErrorIs(t, err, ErrSourceInUse)
	})

	t.Run("closed", func(t *testing.T) {
		m := newMonoMixer(t, Config{})
		m.Close()
		src, _ := NewSource(pcm16(1), monoFormat)
		_, err := m.AddSource(src)
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestVolumeAndMute(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 1000, 1000, 1000, 1000)

	out := make([]byte, 2)
	m.FillBuffer(out)
	assert.Equal(t, []int16{1000}, samples16(out))

	m.SetVolume(50)
	m.FillBuffer(out)
	assert.Equal(t, []int16{500}, samples16(out))

	m.SetMuted(true)
	assert.True(t, m.Muted())
	m.FillBuffer(out)
	assert.Equal(t, []int16{0}, samples16(out))

	m.SetMuted(false)
	m.SetVolume(150)
	assert.Equal(t, 100, m.Volume())
	m.FillBuffer(out)
	assert.Equal(t, []int16{1000}, samples16(out))

	m.SetVolume(-5)
	assert.Equal(t, 0, m.Volume())
}

func TestVolumeAppliesBeforeClamp(t *testing.T) {
	m := newMonoMixer(t, Config{})
	addPCM(t, m, 30000)
	addPCM(t, m, 30000)
	m.SetVolume(50)

	out := make([]byte, 2)
	m.FillBuffer(out)
	assert.Equal(t, []int16{30000}, samples16(out))
	assert.Zero(t, m.Stats().Clipped)
}

func TestStereoFrames(t *testing.T) {
	m, err := New(audio.DefaultFormat, Config{})
	require.NoError(t, err)

	src, err := NewSource(pcm16(1, -1, 2, -2), audio.DefaultFormat)
	require.NoError(t, err)
	_, err = m.AddSource(src)
	require.NoError(t, err)

	// 3 frames requested plus a stray byte
	out := make([]byte, 13)
	for i := range out {
		out[i] = 0xff
	}
	m.FillBuffer(out)

	assert.Equal(t, []int16{1, -1, 2, -2, 0, 0}, samples16(out[:12]))
	assert.Equal(t, byte(0), out[12])
}

func TestReset(t *testing.T) {
	m := newMonoMixer(t, Config{})
	played := addPCM(t, m, 1, 2, 3)
	m.FillBuffer(make([]byte, 2))
	queued := addPCM(t, m, 4, 5, 6)

	m.Reset()
	assert.Equal(t, 0, m.ActiveCount())
	assert.Equal(t, 0, m.Stats().Mixing)

	out := make([]byte, 4)
	m.FillBuffer(out)
	assert.Equal(t, []int16{0, 0}, samples16(out))
	assert.Equal(t, 1, played.Cursor())
	assert.Equal(t, 0, queued.Cursor())

	// Reset leaves the mixer usable
	addPCM(t, m, 9)
	m.FillBuffer(out)
	assert.Equal(t, []int16{9, 0}, samples16(out))
}

func TestSourceLookup(t *testing.T) {
	m := newMonoMixer(t, Config{})
	src := addPCM(t, m, 1)

	got, ok := m.Source(src.ID())
	require.True(t, ok)
	assert.Same(t, src, got)

	m.FillBuffer(make([]byte, 2))
	_, ok = m.Source(src.ID())
	assert.False(t, ok, "completed source should be reaped")
}

func TestConcurrentSubmission(t *testing.T) {
	m := newMonoMixer(t, Config{MaxSources: 64, QueueSize: 64})

	done := make(chan struct{})
	var fillers sync.WaitGroup
	fillers.Add(1)
	go func() {
		defer fillers.Done()
		out := make([]byte, 256)
		for {
			select {
			case <-done:
				return
			default:
				m.FillBuffer(out)
			}
		}
	}()

	var producers sync.WaitGroup
	for p := 0; p < 4; p++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for i := 0; i < 200; i++ {
				src, err := NewSource(make([]byte, 64), monoFormat)
				if err != nil {
					t.Error(err)
					return
				}
				id, err := m.AddSource(src)
				if err != nil {
					// Back off on a full queue or source table
					time.Sleep(time.Microsecond)
					continue
				}
				if i%3 == 0 {
					m.RemoveSource(id)
				}
			}
		}()
	}

	producers.Wait()
	close(done)
	fillers.Wait()

	// Drain whatever is left
	for i := 0; i < 4; i++ {
		m.FillBuffer(make([]byte, 256))
	}
	assert.Equal(t, 0, m.ActiveCount())
}

func TestTone(t *testing.T) {
	format := audio.DefaultFormat
	data := Tone(format, 440, 100*time.Millisecond, 0.5)
	require.Len(t, data, 4800*format.FrameSize())

	var peak int32
	for i := 0; i < len(data); i += format.FrameSize() {
		left := audio.ReadSample(data[i:], 16)
		right := audio.ReadSample(data[i+2:], 16)
		require.Equal(t, left, right, "channels should match")
		if left > peak {
			peak = left
		}
	}
	assert.InDelta(t, 16383, peak, 20)

	silent := Tone(format, 440, 10*time.Millisecond, 0)
	assert.Equal(t, make([]byte, len(silent)), silent)
}
