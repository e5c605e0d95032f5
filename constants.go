package blockfilter

import (
	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/scheduler"
)

// Limits
const (
	// MaxCoefficients bounds both the FIR (b) and feedback (a) coefficient sets.
	MaxCoefficients = engine.MaxCoefficients

	// MaxChannels bounds the channel count of a stream.
	MaxChannels = scheduler.MaxChannels
)

// DefaultBlockLen is the number of frames per callback when Config.BlockLen
// is zero. It matches a typical audio device buffer.
const DefaultBlockLen = 1024

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2 // Stereo channel count (used by interleave functions)
)

// Coefficient listing format, one line per coefficient.
const coefficientLineFormat = "%2d %12.8f\n"
