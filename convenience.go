package blockfilter

import (
	"fmt"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

// NewMovingAverage creates an n-tap moving average filter.
func NewMovingAverage(n int) (*FilterSpec, error) {
	if n < 1 || n > MaxCoefficients {
		return nil, fmt.Errorf("%w: moving average length must be 1..%d", ErrInvalidConfig, MaxCoefficients)
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = 1 / float64(n)
	}
	return NewFilterSpec(b, nil)
}

// NewDelay creates a filter that delays the signal by n samples.
func NewDelay(n int) (*FilterSpec, error) {
	if n < 0 || n >= MaxCoefficients {
		return nil, fmt.Errorf("%w: delay must be 0..%d", ErrInvalidConfig, MaxCoefficients-1)
	}
	b := make([]float64, n+1)
	b[n] = 1
	return NewFilterSpec(b, nil)
}

// NewOnePole creates the first-order low-pass y[n] = (1-k)·x[n] + k·y[n-1].
// k must be in [0, 1).
func NewOnePole(k float64) (*FilterSpec, error) {
	if k < 0 || k >= 1 {
		return nil, fmt.Errorf("%w: one-pole coefficient must be in [0, 1)", ErrInvalidConfig)
	}
	return NewFilterSpec([]float64{1 - k}, []float64{1, -k})
}

// FilterMono is a convenience function for one-shot filtering of a single
// channel. The result has the same length as input.
func FilterMono(spec *FilterSpec, input []float64) ([]float64, error) {
	f, err := NewChannelFilter(spec, len(input))
	if err != nil {
		return nil, err
	}
	output := make([]float64, len(input))
	if err := f.Process(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// FilterStereo is a convenience function for one-shot stereo filtering.
// Each channel keeps its own history.
func FilterStereo(spec *FilterSpec, left, right []float64) (leftOut, rightOut []float64, err error) {
	leftOut, err = FilterMono(spec, left)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = FilterMono(spec, right)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// FilterChannels filters planar channels, concurrently if parallel is true.
// Channels may differ in length.
func FilterChannels(spec *FilterSpec, input [][]float64, parallel bool) ([][]float64, error) {
	m, err := NewMultiFilter(spec, &Config{
		Channels:       len(input),
		EnableParallel: parallel,
	})
	if err != nil {
		return nil, err
	}
	return m.ProcessMulti(input)
}

// FilterInterleaved filters an interleaved signal by running a Stream to
// completion with blockLen frames per callback, the way an audio device
// would drive it. Use 0 for DefaultBlockLen.
func FilterInterleaved(spec *FilterSpec, input []float64, channels, blockLen int) ([]float64, error) {
	s, err := NewStream(spec, input, &Config{Channels: channels, BlockLen: blockLen})
	if err != nil {
		return nil, err
	}
	drain(s.stream, channels, s.cfg.blockLen())
	return s.Output(), nil
}

// FilterReference filters a whole channel in one pass, with no block
// boundaries at all. Block-wise filtering of the same signal produces the
// same result, which makes this the reference for tests and for the
// -verify mode of filter-wav.
func FilterReference(spec *FilterSpec, input []float64) ([]float64, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	return engine.FilterWhole(spec.spec64, input), nil
}

func drain[F simdops.Float](s *stream[F], channels, blockLen int) {
	buf := make([]F, channels*blockLen)
	for !s.IsDone() {
		s.Process(buf)
	}
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	minLen := min(len(left), len(right))
	result := make([]float64, minLen*stereoChannels)
	simdops.Float64Ops().Interleave2(result, left[:minLen], right[:minLen])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]float64, numSamples)
	right = make([]float64, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// =============================================================================
// Float32 Native API
// =============================================================================
//
// The float32 path doubles SIMD throughput and halves memory bandwidth. The
// spec is the same; coefficients are rounded to float32 once when the
// FilterSpec is built. For long IIR filters prefer float64, since rounding
// errors recirculate through the feedback path.

// FilterMonoFloat32 is the float32 equivalent of FilterMono.
func FilterMonoFloat32(spec *FilterSpec, input []float32) ([]float32, error) {
	f, err := NewChannelFilterFloat32(spec, len(input))
	if err != nil {
		return nil, err
	}
	output := make([]float32, len(input))
	if err := f.Process(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// FilterInterleavedFloat32 is the float32 equivalent of FilterInterleaved.
func FilterInterleavedFloat32(spec *FilterSpec, input []float32, channels, blockLen int) ([]float32, error) {
	s, err := NewStreamFloat32(spec, input, &Config{Channels: channels, BlockLen: blockLen})
	if err != nil {
		return nil, err
	}
	drain(s.stream, channels, s.cfg.blockLen())
	return s.Output(), nil
}

// FilterReferenceFloat32 is the float32 equivalent of FilterReference.
func FilterReferenceFloat32(spec *FilterSpec, input []float32) ([]float32, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	return engine.FilterWhole(spec.spec32, input), nil
}

// InterleaveToStereoFloat32 is the float32 equivalent of InterleaveToStereo.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	minLen := min(len(left), len(right))
	result := make([]float32, minLen*stereoChannels)
	simdops.Float32Ops().Interleave2(result, left[:minLen], right[:minLen])
	return result
}

// DeinterleaveFromStereoFloat32 is the float32 equivalent of DeinterleaveFromStereo.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]float32, numSamples)
	right = make([]float32, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}
