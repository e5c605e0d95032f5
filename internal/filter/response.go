// Package filter provides frequency-domain analysis of FIR and IIR
// coefficient sets.
package filter

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	defaultNumPoints = 512

	// Normalized frequency runs from 0 to nyquist (cycles per sample).
	nyquist = 0.5

	minMagnitude = 1e-10 // Avoid log(0)
	dbMultiplier = 20.0  // 20*log10 for magnitude

	fftHermitianDivisor = 2
)

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates H(e^jω) = B(e^jω) / A(e^jω) at numPoints
// evenly spaced frequencies from DC to Nyquist inclusive.
//
// An empty a means a pure FIR filter. numPoints below 2 selects 512 points.
// Frequencies where A vanishes report an infinite magnitude.
func ComputeFrequencyResponse(b, a []float64, numPoints int) FilterResponse {
	if numPoints < 2 {
		numPoints = defaultNumPoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := nyquist * float64(k) / float64(numPoints-1)
		response.Frequencies[k] = freq

		h := evaluate(b, 2*math.Pi*freq)
		if len(a) > 0 {
			den := evaluate(a, 2*math.Pi*freq)
			if den == 0 {
				response.Magnitude[k] = math.Inf(1)
				continue
			}
			h /= den
		}

		response.Magnitude[k] = cmplx.Abs(h)
		response.Phase[k] = cmplx.Phase(h)
	}

	return response
}

// evaluate computes Σ c[n]·e^(-jωn).
func evaluate(coeffs []float64, omega float64) complex128 {
	var realPart, imagPart float64
	for n, c := range coeffs {
		angle := omega * float64(n)
		realPart += c * math.Cos(angle)
		imagPart -= c * math.Sin(angle)
	}
	return complex(realPart, imagPart)
}

// FFTMagnitude returns |FFT(b)| over fftSize/2+1 bins (DC to Nyquist), with
// b zero-padded to fftSize. fftSize is raised to len(b) when smaller.
func FFTMagnitude(b []float64, fftSize int) []float64 {
	fftSize = max(fftSize, len(b), 1)

	padded := make([]float64, fftSize)
	copy(padded, b)

	fft := fourier.NewFFT(fftSize)
	coeffs := fft.Coefficients(nil, padded)

	mags := make([]float64, fftSize/fftHermitianDivisor+1)
	for i := range mags {
		mags[i] = cmplx.Abs(coeffs[i])
	}
	return mags
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}

// DCGain returns H(1) = Σb / Σa. An empty a means Σa = 1. When Σa is zero
// the gain is unbounded and +Inf is returned.
func DCGain(b, a []float64) float64 {
	num := f64.Sum(b)
	if len(a) == 0 {
		return num
	}
	den := f64.Sum(a)
	if den == 0 {
		return math.Inf(1)
	}
	return num / den
}

// NyquistGain returns |H(-1)|, the gain at half the sample rate.
func NyquistGain(b, a []float64) float64 {
	h := evaluate(b, math.Pi)
	if len(a) > 0 {
		den := evaluate(a, math.Pi)
		if den == 0 {
			return math.Inf(1)
		}
		h /= den
	}
	return cmplx.Abs(h)
}
