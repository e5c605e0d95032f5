package engine

import (
	"fmt"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

// Process filters one block of src into dst using spec and the channel
// history in st, then advances the history so the next call continues the
// stream exactly where this one stopped.
//
// Processing a stream in blocks of any sizes yields the same output as
// processing it in one pass. dst and src must have the same length and may be
// the same slice. Blocks longer than the state's capacity are split
// internally. Process never allocates.
func Process[F simdops.Float](dst, src []F, spec *Spec[F], st *ChannelState[F]) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("engine: dst length %d != src length %d", len(dst), len(src)))
	}

	for len(src) > 0 {
		n := min(len(src), st.blockCap)
		processChunk(dst[:n], src[:n], spec, st)
		dst = dst[n:]
		src = src[n:]
	}
}

// processChunk handles a block no longer than st.blockCap.
func processChunk[F simdops.Float](dst, src []F, spec *Spec[F], st *ChannelState[F]) {
	n := len(src)
	hx := st.hx
	taps := spec.b.Len()
	ops := spec.ops

	// Splice the block after the input history. Afterwards line[i : i+taps]
	// holds x[n-Mb+1 .. n] for output i, oldest first.
	line := st.xLine
	copy(line[hx:hx+n], src)

	if taps == 0 {
		clear(dst)
	} else {
		revB := spec.revB[:taps]
		for i := range n {
			dst[i] = ops.DotProductUnsafe(revB, line[i:i+taps])
		}
	}

	// Keep the last Mb-1 samples of (history ++ block). Shifting left through
	// the line also covers blocks shorter than the history.
	copy(line[:hx], line[n:n+hx])

	order := st.hy
	if order == 0 {
		return
	}

	revA := spec.revA[:order]
	y := st.yLine
	for i := range n {
		v := dst[i] - ops.DotProductUnsafe(revA, y[i:i+order])
		y[order+i] = v
		dst[i] = v
	}
	copy(y[:order], y[n:n+order])
}
