package engine

// Coefficient and block limits
const (
	// MaxCoefficients bounds both the FIR (b) and feedback (a) coefficient sets.
	// History buffers are sized from it, so it also bounds per-channel memory.
	MaxCoefficients = 256

	// DefaultBlockCapacity is the per-channel block size used when a caller
	// does not provide one (matches the common device buffer of 1024 frames).
	DefaultBlockCapacity = 1024
)

// FFT reference convolution constants
const (
	// Minimum kernel length for the one-pass reference to switch to FFT
	// convolution. The reference runs over a whole signal, so the FFT pays off
	// much earlier than it would for a single block.
	minKernelForFFT = 128

	// Default FFT block size (power of 2 for efficiency)
	defaultFFTBlockSize = 512

	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// A real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)

// Byte sizes for float types.
const (
	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)

// latencyDivisor gives the nominal group delay of a linear-phase FIR.
const latencyDivisor = 2
