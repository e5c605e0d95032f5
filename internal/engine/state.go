package engine

import "github.com/tphakala/go-audio-blockfilter/internal/simdops"

// ChannelState is the mutable memory of one channel.
//
// The input line is laid out as [xState | block]: its first Mb-1 samples are
// the input history and the remainder is scratch space for the current block.
// Keeping both in one buffer lets every output sample be computed as a dot
// product over a contiguous window, across the block seam. The output line
// has the same shape for the feedback history (yState) and is only allocated
// when the spec applies feedback.
//
// A ChannelState belongs to exactly one channel and one Spec. It is not safe
// for concurrent use.
type ChannelState[F simdops.Float] struct {
	hx       int // input history length (Mb-1)
	hy       int // output history length (Ma-1, feedback only)
	blockCap int

	xLine []F
	yLine []F
}

// NewChannelState allocates the state for one channel processed with spec.
// blockCap is the largest block handled in one pass; longer blocks are split
// internally. Values below 1 select DefaultBlockCapacity.
func NewChannelState[F simdops.Float](spec *Spec[F], blockCap int) *ChannelState[F] {
	if blockCap < 1 {
		blockCap = DefaultBlockCapacity
	}

	st := &ChannelState[F]{
		hx:       spec.historyLen(),
		hy:       spec.Order(),
		blockCap: blockCap,
	}
	st.xLine = make([]F, st.hx+blockCap)
	if st.hy > 0 {
		st.yLine = make([]F, st.hy+blockCap)
	}
	return st
}

// BlockCapacity returns the largest block processed in one pass.
func (st *ChannelState[F]) BlockCapacity() int {
	return st.blockCap
}

// XState returns a copy of the input history, oldest sample first.
func (st *ChannelState[F]) XState() []F {
	return append([]F(nil), st.xLine[:st.hx]...)
}

// YState returns a copy of the output history, oldest sample first.
// It is empty unless the spec applies a recursive term.
func (st *ChannelState[F]) YState() []F {
	if st.hy == 0 {
		return []F{}
	}
	return append([]F(nil), st.yLine[:st.hy]...)
}

// Reset zeroes the history, as at stream start.
func (st *ChannelState[F]) Reset() {
	clear(st.xLine)
	clear(st.yLine)
}

// memoryUsage returns the bytes held by the history lines.
func (st *ChannelState[F]) memoryUsage() int64 {
	var zero F
	bytesPerElement := int64(bytesPerFloat32)
	if _, ok := any(zero).(float64); ok {
		bytesPerElement = bytesPerFloat64
	}
	return int64(cap(st.xLine)+cap(st.yLine)) * bytesPerElement
}
