package transport

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceProducer serves an interleaved signal the way a scheduler does:
// full buffers until the signal runs out, then a short one, then nothing.
func sliceProducer(src []float64, channels int) Producer {
	pos := 0
	return func(out []float64) int {
		clear(out)
		n := copy(out, src[pos:])
		pos += n
		return n / channels
	}
}

func drainBeep(t *testing.T, s beep.Streamer, chunk int) [][2]float64 {
	t.Helper()
	var got [][2]float64
	buf := make([][2]float64, chunk)
	for {
		n, ok := s.Stream(buf)
		got = append(got, buf[:n]...)
		if !ok {
			return got
		}
	}
}

func TestBeepStreamer_Stereo(t *testing.T) {
	src := make([]float64, 2*10)
	for i := range src {
		src[i] = float64(i)
	}

	for _, chunk := range []int{1, 3, 4, 64} {
		s, err := NewBeepStreamer(sliceProducer(src, 2), 2, 4)
		require.NoError(t, err)

		got := drainBeep(t, s, chunk)
		require.Len(t, got, 10, "chunk=%d", chunk)
		for i, frame := range got {
			assert.Equal(t, [2]float64{src[2*i], src[2*i+1]}, frame)
		}
		assert.NoError(t, s.Err())
	}
}

func TestBeepStreamer_MonoDuplicated(t *testing.T) {
	s, err := NewBeepStreamer(sliceProducer([]float64{1, 2, 3}, 1), 1, 2)
	require.NoError(t, err)

	got := drainBeep(t, s, 8)
	assert.Equal(t, [][2]float64{{1, 1}, {2, 2}, {3, 3}}, got)
}

func TestBeepStreamer_ExactMultipleEndsOnEmptyBuffer(t *testing.T) {
	s, err := NewBeepStreamer(sliceProducer([]float64{1, 2, 3, 4}, 1), 1, 2)
	require.NoError(t, err)

	got := drainBeep(t, s, 3)
	assert.Len(t, got, 4)

	n, ok := s.Stream(make([][2]float64, 1))
	assert.Zero(t, n)
	assert.False(t, ok)
}

func TestBeepStreamer_WithTake(t *testing.T) {
	s, err := NewBeepStreamer(sliceProducer([]float64{1, 2, 3, 4, 5}, 1), 1, 2)
	require.NoError(t, err)

	got := drainBeep(t, beep.Take(3, s), 2)
	assert.Equal(t, [][2]float64{{1, 1}, {2, 2}, {3, 3}}, got)
}

func TestBeepStreamer_RejectsSurround(t *testing.T) {
	_, err := NewBeepStreamer(sliceProducer(nil, 6), 6, 4)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
