package engine

import (
	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTConvolver performs overlap-save FFT correlation of a signal with a fixed
// kernel: dst[i] = Σ signal[i+k] * kernel[k], the same orientation as
// simdops.Ops.ConvolveValid. The one-pass reference uses it for long kernels.
//
// Overlap-save method:
//  1. Process input in blocks of fftSize samples (with kernelLen-1 overlap)
//  2. Each block produces blockSize = fftSize - kernelLen + 1 valid output samples
//  3. The first kernelLen-1 output samples of each block are discarded (circular wrap)
type FFTConvolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int

	kernelFFT []complex128
	kernelLen int
	scale     float64 // gonum does not normalize the inverse transform

	signalBlock []float64
	signalFFT   []complex128
	productFFT  []complex128
	ifftResult  []float64
}

// NewFFTConvolver transforms kernel once for reuse. It returns nil for an
// empty kernel.
func NewFFTConvolver(kernel []float64) *FFTConvolver {
	kernelLen := len(kernel)
	if kernelLen == 0 {
		return nil
	}

	fftSize := defaultFFTBlockSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)

	// Circular convolution computes Σ x[n-k]·h[k]; reversing h turns it into
	// the correlation the direct path computes.
	kernelPadded := make([]float64, fftSize)
	for i := range kernelLen {
		kernelPadded[i] = kernel[kernelLen-1-i]
	}

	fftLen := fftSize/fftHermitianDivisor + 1
	return &FFTConvolver{
		fft:         fft,
		fftSize:     fftSize,
		blockSize:   fftSize - kernelLen + 1,
		kernelFFT:   fft.Coefficients(nil, kernelPadded),
		kernelLen:   kernelLen,
		scale:       1.0 / float64(fftSize),
		signalBlock: make([]float64, fftSize),
		signalFFT:   make([]complex128, fftLen),
		productFFT:  make([]complex128, fftLen),
		ifftResult:  make([]float64, fftSize),
	}
}

// Convolve writes len(signal)-kernelLen+1 outputs to dst.
// It does nothing when signal is shorter than the kernel or dst is too short.
func (c *FFTConvolver) Convolve(dst, signal []float64) {
	signalLen := len(signal)
	outputLen := signalLen - c.kernelLen + 1
	if outputLen <= 0 || len(dst) < outputLen {
		return
	}

	overlap := c.kernelLen - 1
	for outIdx := 0; outIdx < outputLen; {
		clear(c.signalBlock)
		copyLen := min(c.fftSize, signalLen-outIdx)
		copy(c.signalBlock, signal[outIdx:outIdx+copyLen])

		c.signalFFT = c.fft.Coefficients(c.signalFFT, c.signalBlock)
		c128.Mul(c.productFFT, c.signalFFT, c.kernelFFT)
		c.ifftResult = c.fft.Sequence(c.ifftResult, c.productFFT)
		f64.Scale(c.ifftResult, c.ifftResult, c.scale)

		valid := min(c.blockSize, outputLen-outIdx)
		copy(dst[outIdx:outIdx+valid], c.ifftResult[overlap:overlap+valid])
		outIdx += valid
	}
}

// FilterWhole filters x in a single pass from zero initial history.
//
// It is the oracle for the block engine: any partition of x fed through
// Process must reproduce this output. The FIR term is computed as one valid
// correlation over x prefixed with Mb-1 zeros (FFT based for long float64
// kernels); the recursive term, when enabled, follows sample by sample.
func FilterWhole[F simdops.Float](spec *Spec[F], x []F) []F {
	y := make([]F, len(x))
	if len(x) == 0 {
		return y
	}

	taps := spec.b.Len()
	if taps > 0 {
		hx := taps - 1
		padded := make([]F, hx+len(x))
		copy(padded[hx:], x)
		if !convolveFFT(y, padded, spec.revB[:taps]) {
			spec.ops.ConvolveValid(y, padded, spec.revB[:taps])
		}
	}

	order := spec.order
	if order == 0 {
		return y
	}

	revA := spec.revA[:order]
	hist := make([]F, order+len(y))
	for i := range y {
		v := y[i] - spec.ops.DotProductUnsafe(revA, hist[i:i+order])
		hist[order+i] = v
		y[i] = v
	}
	return y
}

// convolveFFT runs the FFT path when F is float64 and the kernel is long
// enough for it to pay off. It reports whether it handled the request.
func convolveFFT[F simdops.Float](dst, signal, kernel []F) bool {
	if len(kernel) < minKernelForFFT {
		return false
	}
	d, ok := any(dst).([]float64)
	if !ok {
		return false
	}
	s, _ := any(signal).([]float64)
	k, _ := any(kernel).([]float64)
	NewFFTConvolver(k).Convolve(d, s)
	return true
}
