package scheduler

import "github.com/tphakala/go-audio-blockfilter/internal/simdops"

const stereoChannels = 2

// deinterleave splits frames interleaved frames of src into dst[c][:frames].
func deinterleave[F simdops.Float](dst [][]F, src []F, channels, frames int) {
	if channels == 1 {
		copy(dst[0][:frames], src[:frames])
		return
	}
	for c := range channels {
		ch := dst[c][:frames]
		for i := range ch {
			ch[i] = src[i*channels+c]
		}
	}
}

// interleave merges src[c][:frames] into dst.
func interleave[F simdops.Float](dst []F, src [][]F, channels, frames int, ops *simdops.Ops[F]) {
	switch channels {
	case 1:
		copy(dst[:frames], src[0][:frames])
	case stereoChannels:
		ops.Interleave2(dst[:frames*stereoChannels], src[0][:frames], src[1][:frames])
	default:
		for c := range channels {
			ch := src[c][:frames]
			for i, v := range ch {
				dst[i*channels+c] = v
			}
		}
	}
}
