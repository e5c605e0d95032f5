package engine

import (
	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
	"github.com/tphakala/simd/cpu"
)

// ChannelFilter binds a shared Spec to the state of a single channel.
//
// Type parameter F controls the precision of sample processing.
type ChannelFilter[F simdops.Float] struct {
	spec  *Spec[F]
	state *ChannelState[F]
}

// NewChannelFilter creates a filter for one channel with room for blocks of
// up to blockCap samples per pass (longer blocks are still accepted).
func NewChannelFilter[F simdops.Float](spec *Spec[F], blockCap int) *ChannelFilter[F] {
	return &ChannelFilter[F]{
		spec:  spec,
		state: NewChannelState(spec, blockCap),
	}
}

// Process filters src into dst and advances the channel history.
func (f *ChannelFilter[F]) Process(dst, src []F) {
	Process(dst, src, f.spec, f.state)
}

// Reset returns the channel to its stream-start state.
func (f *ChannelFilter[F]) Reset() {
	f.state.Reset()
}

// Spec returns the shared filter description.
func (f *ChannelFilter[F]) Spec() *Spec[F] {
	return f.spec
}

// State returns the channel state. It is owned by the filter.
func (f *ChannelFilter[F]) State() *ChannelState[F] {
	return f.state
}

// GetLatency returns the nominal group delay in samples of a symmetric
// (linear-phase) FIR of the spec's length.
func (f *ChannelFilter[F]) GetLatency() int {
	return f.spec.historyLen() / latencyDivisor
}

// GetMemoryUsage returns approximate memory usage in bytes.
func (f *ChannelFilter[F]) GetMemoryUsage() int64 {
	return f.state.memoryUsage()
}

// GetFilterLength returns the number of feed-forward taps.
func (f *ChannelFilter[F]) GetFilterLength() int {
	return f.spec.NumB()
}

// GetSIMDInfo returns SIMD optimization info.
func (f *ChannelFilter[F]) GetSIMDInfo() string {
	return cpu.Info()
}
