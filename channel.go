package blockfilter

import (
	"fmt"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
)

// ChannelFilter filters one channel of a stream block by block, carrying the
// filter memory across calls. Feeding a signal through Process in blocks of
// any sizes gives the same output as filtering it in one piece.
//
// A ChannelFilter must not be used by more than one goroutine at a time.
// Use one per channel; they can share a FilterSpec.
type ChannelFilter struct {
	f *engine.ChannelFilter[float64]
}

// NewChannelFilter creates a filter for one channel. maxBlock sizes the
// internal work area: blocks up to maxBlock samples are filtered in one
// pass, longer ones in several, without allocating either way. Use 0 for
// DefaultBlockLen.
func NewChannelFilter(spec *FilterSpec, maxBlock int) (*ChannelFilter, error) {
	if err := checkChannelArgs(spec, maxBlock); err != nil {
		return nil, err
	}
	return &ChannelFilter{f: engine.NewChannelFilter(spec.spec64, maxBlock)}, nil
}

// Process filters src into dst[:len(src)]. dst may alias src.
func (c *ChannelFilter) Process(dst, src []float64) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: need %d samples, got %d", ErrBufferTooSmall, len(src), len(dst))
	}
	c.f.Process(dst[:len(src)], src)
	return nil
}

// Reset forgets all history, as at the start of a new stream.
func (c *ChannelFilter) Reset() {
	c.f.Reset()
}

// History returns the last NumB-1 input samples, oldest first.
func (c *ChannelFilter) History() []float64 {
	return c.f.State().XState()
}

// FeedbackHistory returns the last NumA-1 output samples, oldest first, when
// feedback is enabled. It is empty otherwise.
func (c *ChannelFilter) FeedbackHistory() []float64 {
	return c.f.State().YState()
}

// GetLatency returns the nominal group delay in samples of a linear-phase FIR
// of this length.
func (c *ChannelFilter) GetLatency() int {
	return c.f.GetLatency()
}

// ChannelFilterFloat32 is the float32 counterpart of ChannelFilter.
type ChannelFilterFloat32 struct {
	f *engine.ChannelFilter[float32]
}

// NewChannelFilterFloat32 creates a float32 filter for one channel.
func NewChannelFilterFloat32(spec *FilterSpec, maxBlock int) (*ChannelFilterFloat32, error) {
	if err := checkChannelArgs(spec, maxBlock); err != nil {
		return nil, err
	}
	return &ChannelFilterFloat32{f: engine.NewChannelFilter(spec.spec32, maxBlock)}, nil
}

// Process filters src into dst[:len(src)]. dst may alias src.
func (c *ChannelFilterFloat32) Process(dst, src []float32) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: need %d samples, got %d", ErrBufferTooSmall, len(src), len(dst))
	}
	c.f.Process(dst[:len(src)], src)
	return nil
}

// Reset forgets all history, as at the start of a new stream.
func (c *ChannelFilterFloat32) Reset() {
	c.f.Reset()
}

// History returns the last NumB-1 input samples, oldest first.
func (c *ChannelFilterFloat32) History() []float32 {
	return c.f.State().XState()
}

func checkChannelArgs(spec *FilterSpec, maxBlock int) error {
	if spec == nil {
		return fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	if maxBlock < 0 {
		return fmt.Errorf("%w: block length must not be negative", ErrInvalidConfig)
	}
	return nil
}
