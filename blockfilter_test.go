package blockfilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterSpec_Errors(t *testing.T) {
	tooMany := make([]float64, MaxCoefficients+1)

	tests := []struct {
		name    string
		b, a    []float64
		opts    []SpecOption
		wantErr error
	}{
		{"too many b", tooMany, nil, nil, ErrTooManyCoefficients},
		{"too many a", []float64{1}, tooMany, nil, ErrTooManyCoefficients},
		{"NaN in b", []float64{1, math.NaN()}, nil, nil, ErrNonFiniteCoefficient},
		{"Inf in a", []float64{1}, []float64{1, math.Inf(1)}, nil, ErrNonFiniteCoefficient},
		{"zero a0", []float64{1}, []float64{0, 0.5}, nil, ErrZeroLeadingFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilterSpec(tt.b, tt.a, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewFilterSpec_FIROnlyAcceptsZeroA0(t *testing.T) {
	spec, err := NewFilterSpec([]float64{1}, []float64{0, 0.5}, WithFIROnly())
	require.NoError(t, err)

	assert.True(t, spec.FIROnly())
	assert.False(t, spec.FeedbackEnabled())
	assert.Equal(t, 2, spec.NumA())
}

func TestNewFilterSpec_MaxCoefficients(t *testing.T) {
	b := make([]float64, MaxCoefficients)
	a := make([]float64, MaxCoefficients)
	a[0] = 1

	spec, err := NewFilterSpec(b, a)
	require.NoError(t, err)
	assert.Equal(t, MaxCoefficients, spec.NumB())
	assert.Equal(t, MaxCoefficients, spec.NumA())
}

func TestFilterSpec_AccessorsReturnCopies(t *testing.T) {
	b := []float64{0.25, 0.5, 0.25}
	a := []float64{1, -0.5}
	spec, err := NewFilterSpec(b, a)
	require.NoError(t, err)

	b[0] = 99
	got := spec.B()
	got[1] = 99

	assert.Equal(t, []float64{0.25, 0.5, 0.25}, spec.B())
	assert.Equal(t, []float64{1, -0.5}, spec.A())
	assert.True(t, spec.FeedbackEnabled())
}

func TestFilterSpec_EmptySets(t *testing.T) {
	spec, err := NewFilterSpec(nil, nil)
	require.NoError(t, err)

	assert.Zero(t, spec.NumB())
	assert.Zero(t, spec.NumA())
	assert.False(t, spec.FeedbackEnabled())
	assert.Zero(t, spec.DCGain())
}

func TestFilterSpec_DCGain(t *testing.T) {
	tests := []struct {
		name string
		b, a []float64
		opts []SpecOption
		want float64
	}{
		{"smoothing", []float64{0.25, 0.5, 0.25}, nil, nil, 1},
		{"one pole", []float64{0.5}, []float64{1, -0.5}, nil, 1},
		{"scaled by a0", []float64{1}, []float64{2}, nil, 0.5},
		{"fir only ignores a", []float64{1, 1}, []float64{1, -0.5}, []SpecOption{WithFIROnly()}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewFilterSpec(tt.b, tt.a, tt.opts...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, spec.DCGain(), 1e-12)
		})
	}
}

func TestFilterSpec_Response(t *testing.T) {
	spec, err := NewFilterSpec([]float64{0.5, 0.5}, nil)
	require.NoError(t, err)

	resp := spec.Response(65)
	require.Len(t, resp.Magnitude, 65)

	assert.InDelta(t, 1.0, resp.Magnitude[0], 1e-12, "DC")
	assert.InDelta(t, 0.0, resp.Magnitude[64], 1e-12, "Nyquist")
	assert.InDelta(t, 0.5, resp.Frequencies[64], 1e-12)
}

func TestFilterSpec_ResponseIgnoresUnappliedFeedback(t *testing.T) {
	fir, err := NewFilterSpec([]float64{0.5, 0.5}, []float64{1, -0.9}, WithFIROnly())
	require.NoError(t, err)
	iir, err := NewFilterSpec([]float64{0.5, 0.5}, []float64{1, -0.9})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, fir.Response(8).Magnitude[0], 1e-12)
	assert.InDelta(t, 10.0, iir.Response(8).Magnitude[0], 1e-9)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"mono", Config{Channels: 1}, false},
		{"max channels", Config{Channels: MaxChannels}, false},
		{"real-time with rate", Config{Channels: 2, SampleRate: 48000, RealTime: true}, false},
		{"zero channels", Config{Channels: 0}, true},
		{"too many channels", Config{Channels: MaxChannels + 1}, true},
		{"negative block", Config{Channels: 1, BlockLen: -1}, true},
		{"real-time without rate", Config{Channels: 1, RealTime: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	fir, err := NewMovingAverage(8)
	require.NoError(t, err)
	iir, err := NewOnePole(0.5)
	require.NoError(t, err)

	info := GetInfo(fir)
	assert.Equal(t, "fir", info.Algorithm)
	assert.Equal(t, 8, info.NumB)
	assert.False(t, info.Feedback)
	assert.InDelta(t, 1.0, info.DCGain, 1e-12)
	assert.Zero(t, info.MemoryUsage)
	assert.NotEmpty(t, info.SIMDType)

	info = GetInfo(iir)
	assert.Equal(t, "iir", info.Algorithm)
	assert.Equal(t, 2, info.NumA)
	assert.True(t, info.Feedback)

	f, err := NewChannelFilter(fir, 64)
	require.NoError(t, err)
	assert.Positive(t, f.GetInfo().MemoryUsage)

	m, err := NewMultiFilter(fir, &Config{Channels: 3, BlockLen: 64})
	require.NoError(t, err)
	assert.Equal(t, 3*f.GetInfo().MemoryUsage, m.GetInfo().MemoryUsage)
}
