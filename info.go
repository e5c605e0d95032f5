package blockfilter

import (
	"github.com/tphakala/go-audio-blockfilter/internal/engine"
)

// Info describes a filter and the implementation that runs it.
type Info struct {
	// Algorithm is "fir" or "iir" (direct form I).
	Algorithm string

	// NumB is the number of feed-forward coefficients.
	NumB int

	// NumA is the number of feedback coefficients, applied or not.
	NumA int

	// Feedback indicates the feedback coefficients are applied.
	Feedback bool

	// DCGain is the gain at 0 Hz.
	DCGain float64

	// Latency is the nominal group delay in samples.
	Latency int

	// MemoryUsage is the approximate per-instance state in bytes.
	// Zero when the info describes a spec rather than a filter.
	MemoryUsage int64

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// GetInfo returns information about a filter spec.
func GetInfo(spec *FilterSpec) Info {
	info := channelInfo(engine.NewChannelFilter(spec.spec64, 1))
	info.MemoryUsage = 0
	return info
}

// GetInfo returns information about the filter, including its memory usage.
func (c *ChannelFilter) GetInfo() Info {
	return channelInfo(c.f)
}

// GetInfo returns information about the filter bank. MemoryUsage covers all
// channels.
func (m *MultiFilter) GetInfo() Info {
	info := channelInfo(m.channels[0])
	info.MemoryUsage *= int64(len(m.channels))
	return info
}

func channelInfo(f *engine.ChannelFilter[float64]) Info {
	s := f.Spec()
	info := Info{
		Algorithm:   "fir",
		NumB:        s.NumB(),
		NumA:        s.NumA(),
		Feedback:    s.Feedback(),
		DCGain:      s.DCGain(),
		Latency:     f.GetLatency(),
		MemoryUsage: f.GetMemoryUsage(),
		SIMDType:    f.GetSIMDInfo(),
	}
	if info.Feedback {
		info.Algorithm = "iir"
	}
	return info
}
