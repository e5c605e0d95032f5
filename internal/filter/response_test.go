package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-blockfilter/internal/testutil"
)

const magnitudeTolerance = 1e-9

func TestComputeFrequencyResponse_FIR(t *testing.T) {
	coeffs := []float64{0.25, 0.5, 0.25}

	response := ComputeFrequencyResponse(coeffs, nil, 513)

	require.Len(t, response.Frequencies, 513)
	assert.Len(t, response.Magnitude, 513)
	assert.Len(t, response.Phase, 513)

	assert.InDelta(t, 0.0, response.Frequencies[0], 0)
	assert.InDelta(t, 0.5, response.Frequencies[512], 0)

	// DC: sum of taps. Nyquist: alternating sum, 0.25 - 0.5 + 0.25 = 0.
	assert.InDelta(t, 1.0, response.Magnitude[0], magnitudeTolerance)
	assert.InDelta(t, 0.0, response.Magnitude[512], magnitudeTolerance)

	// Raised cosine: |H(f)| = cos²(πf).
	quarter := 256
	assert.InDelta(t, 0.5, response.Magnitude[quarter], magnitudeTolerance)
}

func TestComputeFrequencyResponse_OnePole(t *testing.T) {
	// H(z) = 1 / (1 - 0.5 z^-1): DC gain 2, Nyquist gain 2/3.
	response := ComputeFrequencyResponse([]float64{1}, []float64{1, -0.5}, 64)

	assert.InDelta(t, 2.0, response.Magnitude[0], magnitudeTolerance)
	assert.InDelta(t, 2.0/3.0, response.Magnitude[63], magnitudeTolerance)
	testutil.AssertNoNaNOrInf(t, response.Phase)
}

func TestComputeFrequencyResponse_DefaultPoints(t *testing.T) {
	response := ComputeFrequencyResponse([]float64{1}, nil, 0)
	assert.Len(t, response.Magnitude, defaultNumPoints)
}

func TestComputeFrequencyResponse_PoleOnUnitCircle(t *testing.T) {
	response := ComputeFrequencyResponse([]float64{1}, []float64{1, -1}, 8)
	assert.True(t, math.IsInf(response.Magnitude[0], 1), "integrator is unbounded at DC")
}

func TestFFTMagnitude_MatchesDTFT(t *testing.T) {
	b := testutil.Noise[float64](31, 1)
	const fftSize = 256

	mags := FFTMagnitude(b, fftSize)
	require.Len(t, mags, fftSize/2+1)

	response := ComputeFrequencyResponse(b, nil, fftSize/2+1)
	testutil.AssertSlicesInDelta(t, response.Magnitude, mags, 1e-9)
}

func TestFFTMagnitude_GrowsToKernel(t *testing.T) {
	mags := FFTMagnitude(make([]float64, 10), 4)
	assert.Len(t, mags, 6)
}

func TestMagnitudeDB(t *testing.T) {
	tests := []struct {
		name string
		mag  float64
		want float64
	}{
		{"unity", 1.0, 0.0},
		{"half", 0.5, -6.0206},
		{"tenth", 0.1, -20.0},
		{"hundredth", 0.01, -40.0},
		{"zero clips", 0.0, -200.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MagnitudeDB(tt.mag), testutil.DBTolerance)
		})
	}
}

func TestDCGain(t *testing.T) {
	assert.InDelta(t, 1.0, DCGain([]float64{0.5, 0.5}, nil), 0)
	assert.InDelta(t, 2.0, DCGain([]float64{1}, []float64{1, -0.5}), 0)
	assert.True(t, math.IsInf(DCGain([]float64{1}, []float64{1, -1}), 1))
	testutil.AssertDCGain(t, []float64{0.25, 0.5, 0.25}, DCGain([]float64{0.25, 0.5, 0.25}, nil), 0)
}

func TestNyquistGain(t *testing.T) {
	assert.InDelta(t, 0.0, NyquistGain([]float64{0.5, 0.5}, nil), magnitudeTolerance)
	assert.InDelta(t, 1.0, NyquistGain([]float64{0.5, -0.5}, nil), magnitudeTolerance)
	assert.InDelta(t, 2.0/3.0, NyquistGain([]float64{1}, []float64{1, -0.5}), magnitudeTolerance)
}

func TestOnePoleResponseBounds(t *testing.T) {
	// y[n] = 0.1 x[n] + 0.9 y[n-1] has unity gain at DC and rolls off monotonically.
	b := []float64{0.1}
	a := []float64{1, -0.9}

	testutil.AssertRelativeError(t, 1.0, DCGain(b, a), 1e-12)
	testutil.AssertRelativeError(t, 0.1/1.9, NyquistGain(b, a), 1e-12)

	response := ComputeFrequencyResponse(b, a, 64)
	for i, m := range response.Magnitude {
		testutil.AssertInRange(t, m, 0.1/1.9-1e-12, 1+1e-12, "bin %d", i)
		if i > 0 {
			assert.LessOrEqual(t, m, response.Magnitude[i-1]+1e-12, "bin %d", i)
		}
	}
}
