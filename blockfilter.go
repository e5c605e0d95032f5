package blockfilter

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/filter"
)

// Common errors returned by the filter.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid filter configuration")

	// ErrBufferTooSmall indicates the output buffer is too small.
	ErrBufferTooSmall = errors.New("output buffer too small")

	// ErrTooManyCoefficients indicates a coefficient set longer than MaxCoefficients.
	ErrTooManyCoefficients = engine.ErrTooManyCoefficients

	// ErrZeroLeadingFeedback indicates a[0] == 0 with feedback enabled.
	ErrZeroLeadingFeedback = engine.ErrZeroLeadingFeedback

	// ErrNonFiniteCoefficient indicates a NaN or infinite coefficient.
	ErrNonFiniteCoefficient = engine.ErrNonFiniteCoefficient
)

// FrequencyResponse holds the frequency response of a filter.
type FrequencyResponse = filter.FilterResponse

// FilterSpec is an immutable description of a filter: feed-forward
// coefficients b and feedback coefficients a, as in
//
//	a[0]·y[n] = Σ b[k]·x[n-k] − Σ_{k≥1} a[k]·y[n-k]
//
// A FilterSpec is safe to share between any number of channels and streams.
type FilterSpec struct {
	b, a    []float64
	firOnly bool

	spec64 *engine.Spec[float64]
	spec32 *engine.Spec[float32]
}

// SpecOption configures NewFilterSpec.
type SpecOption func(*specOptions)

type specOptions struct {
	firOnly bool
}

// WithFIROnly stores the feedback coefficients but never applies them, so
// the filter is the pure FIR defined by b. Use it for coefficient files whose
// a set is informational only.
func WithFIROnly() SpecOption {
	return func(o *specOptions) {
		o.firOnly = true
	}
}

// NewFilterSpec validates and builds a filter description.
//
// Either set may be empty: no b coefficients yields silence, no a
// coefficients yields a pure FIR. Each set holds at most MaxCoefficients
// values, all finite. When feedback is applied a[0] must be non-zero.
func NewFilterSpec(b, a []float64, opts ...SpecOption) (*FilterSpec, error) {
	var o specOptions
	for _, opt := range opts {
		opt(&o)
	}

	spec64, err := engine.NewSpec[float64](b, a, !o.firOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	spec32, err := engine.NewSpec[float32](b, a, !o.firOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &FilterSpec{
		b:       append([]float64(nil), b...),
		a:       append([]float64(nil), a...),
		firOnly: o.firOnly,
		spec64:  spec64,
		spec32:  spec32,
	}, nil
}

// NumB returns the number of feed-forward coefficients.
func (s *FilterSpec) NumB() int {
	return len(s.b)
}

// NumA returns the number of feedback coefficients, applied or not.
func (s *FilterSpec) NumA() int {
	return len(s.a)
}

// B returns a copy of the feed-forward coefficients.
func (s *FilterSpec) B() []float64 {
	return append([]float64(nil), s.b...)
}

// A returns a copy of the feedback coefficients.
func (s *FilterSpec) A() []float64 {
	return append([]float64(nil), s.a...)
}

// FIROnly reports whether the spec was built with WithFIROnly.
func (s *FilterSpec) FIROnly() bool {
	return s.firOnly
}

// FeedbackEnabled reports whether the a coefficients take part in filtering.
func (s *FilterSpec) FeedbackEnabled() bool {
	return s.spec64.Feedback()
}

// DCGain returns the gain at 0 Hz of the filter as applied.
func (s *FilterSpec) DCGain() float64 {
	return s.spec64.DCGain()
}

// Response evaluates the frequency response of the filter as applied at
// numPoints frequencies from DC to Nyquist.
func (s *FilterSpec) Response(numPoints int) FrequencyResponse {
	var a []float64
	if s.FeedbackEnabled() {
		a = s.a
	}
	return filter.ComputeFrequencyResponse(s.b, a, numPoints)
}

// Config holds stream configuration.
type Config struct {
	// Channels is the number of interleaved channels per frame.
	Channels int

	// BlockLen is the number of frames handled per callback.
	// Set to 0 to use DefaultBlockLen.
	BlockLen int

	// SampleRate in Hz. Only needed by Play in real-time mode.
	SampleRate int

	// RealTime makes Play pace callbacks at BlockLen/SampleRate seconds,
	// like a sound card would. Otherwise Play runs as fast as possible.
	RealTime bool

	// EnableParallel filters planar channels concurrently in
	// MultiFilter.ProcessMulti. Output is identical either way.
	EnableParallel bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > MaxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, MaxChannels)
	}

	if c.BlockLen < 0 {
		return fmt.Errorf("%w: block length must not be negative", ErrInvalidConfig)
	}

	if c.RealTime && c.SampleRate <= 0 {
		return fmt.Errorf("%w: real-time playback needs a positive sample rate", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) blockLen() int {
	if c.BlockLen == 0 {
		return DefaultBlockLen
	}
	return c.BlockLen
}
