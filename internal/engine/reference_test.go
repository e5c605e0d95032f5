package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
	"github.com/tphakala/go-audio-blockfilter/internal/testutil"
)

func TestFFTConvolver_MatchesDirect(t *testing.T) {
	for _, kernelLen := range []int{1, 33, 200, 600} {
		kernel := testutil.Noise[float64](kernelLen, uint64(kernelLen))
		signal := testutil.Noise[float64](4000, 99)
		outLen := len(signal) - kernelLen + 1

		want := make([]float64, outLen)
		simdops.Float64Ops().ConvolveValid(want, signal, kernel)

		got := make([]float64, outLen)
		conv := NewFFTConvolver(kernel)
		require.NotNil(t, conv)
		conv.Convolve(got, signal)

		testutil.AssertSlicesInDelta(t, want, got, 1e-9, "kernel length %d", kernelLen)
	}
}

func TestFFTConvolver_EmptyKernel(t *testing.T) {
	assert.Nil(t, NewFFTConvolver(nil))
}

func TestFFTConvolver_SignalShorterThanKernel(t *testing.T) {
	conv := NewFFTConvolver(make([]float64, 10))
	dst := []float64{5}
	conv.Convolve(dst, make([]float64, 4))
	assert.Equal(t, []float64{5}, dst, "nothing to write")
}

func TestFilterWhole_FFTPathMatchesNaive(t *testing.T) {
	require.GreaterOrEqual(t, MaxCoefficients, minKernelForFFT)
	b := testutil.Noise[float64](MaxCoefficients, 3)
	spec := mustSpec(t, b, nil, false)
	x := testutil.Noise[float64](3000, 4)

	want := naiveFilter(b, nil, x)
	got := FilterWhole(spec, x)

	testutil.AssertSlicesInDelta(t, want, got, 1e-9)
}

func TestFilterWhole_Empty(t *testing.T) {
	spec := mustSpec(t, []float64{1, 2}, nil, false)
	assert.Empty(t, FilterWhole(spec, []float64{}))

	silent := mustSpec(t, nil, nil, false)
	testutil.AssertAllZero(t, FilterWhole(silent, []float64{1, 2, 3}))
}

func BenchmarkFilterWhole(b *testing.B) {
	spec, err := NewSpec[float64](testutil.Noise[float64](MaxCoefficients, 1), nil, false)
	if err != nil {
		b.Fatal(err)
	}
	x := testutil.Noise[float64](48000, 2)

	b.ReportAllocs()
	for b.Loop() {
		_ = FilterWhole(spec, x)
	}
}
