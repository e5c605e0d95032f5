package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

func TestInterleaveRoundTrip(t *testing.T) {
	ops := simdops.Float64Ops()

	for _, channels := range []int{1, 2, 5} {
		const frames = 7
		src := make([]float64, frames*channels)
		for i := range src {
			src[i] = float64(i)
		}

		split := make([][]float64, channels)
		for c := range split {
			split[c] = make([]float64, frames+3)
		}
		deinterleave(split, src, channels, frames)
		for c := range channels {
			assert.InDelta(t, float64(c), split[c][0], 0, "channel %d first frame", c)
			assert.InDelta(t, float64((frames-1)*channels+c), split[c][frames-1], 0)
		}

		dst := make([]float64, len(src))
		interleave(dst, split, channels, frames, ops)
		assert.Equal(t, src, dst, "%d channels", channels)
	}
}
