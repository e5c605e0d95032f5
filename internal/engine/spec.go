package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

// Errors returned while building a Spec. All of them are configuration-time
// failures; nothing in the processing path returns an error.
var (
	// ErrTooManyCoefficients indicates a coefficient set longer than MaxCoefficients.
	ErrTooManyCoefficients = errors.New("too many coefficients")

	// ErrZeroLeadingFeedback indicates a[0] == 0 while feedback is enabled.
	ErrZeroLeadingFeedback = errors.New("leading feedback coefficient a[0] is zero")

	// ErrNonFiniteCoefficient indicates a NaN or infinite coefficient.
	ErrNonFiniteCoefficient = errors.New("coefficient is not finite")
)

// Spec is an immutable filter description shared read-only by every channel.
//
// The feed-forward set b and the feedback set a are kept as given. For
// processing, Spec also holds the kernels in the layout the inner loop wants:
// b reversed (so each output is a single contiguous dot product against the
// history line) and a[1:] reversed, both normalized by a[0] when feedback is
// in effect.
type Spec[F simdops.Float] struct {
	b Bounded[F]
	a Bounded[F]

	// feedback is true when the recursive term (or the 1/a[0] gain) applies.
	feedback bool

	revB  [MaxCoefficients]F
	revA  [MaxCoefficients]F
	order int // number of feedback taps used by the recursion (Ma-1)

	ops *simdops.Ops[F]
}

// NewSpec builds a Spec from b and a.
//
// When applyFeedback is false, a is stored but never used and the filter is
// purely FIR. When applyFeedback is true and a is non-empty, the filter is a
// Direct Form I recursion:
//
//	a[0]·y[n] = Σ b[k]·x[n-k] − Σ_{k≥1} a[k]·y[n-k]
func NewSpec[F simdops.Float](b, a []float64, applyFeedback bool) (*Spec[F], error) {
	if err := checkFinite("b", b); err != nil {
		return nil, err
	}
	if err := checkFinite("a", a); err != nil {
		return nil, err
	}

	s := &Spec[F]{ops: simdops.For[F]()}
	if err := s.b.Set(b); err != nil {
		return nil, fmt.Errorf("feed-forward: %w", err)
	}
	if err := s.a.Set(a); err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}

	gain := 1.0
	if applyFeedback && len(a) > 0 {
		if a[0] == 0 {
			return nil, ErrZeroLeadingFeedback
		}
		s.feedback = true
		gain = 1 / a[0]
		s.order = len(a) - 1
		for j := range s.order {
			s.revA[j] = F(a[len(a)-1-j] * gain)
		}
	}

	for j := range b {
		s.revB[j] = F(b[len(b)-1-j] * gain)
	}

	return s, nil
}

func checkFinite(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] = %v", ErrNonFiniteCoefficient, name, i, v)
		}
	}
	return nil
}

// NumB returns the number of feed-forward coefficients (Mb).
func (s *Spec[F]) NumB() int {
	return s.b.Len()
}

// NumA returns the number of feedback coefficients (Ma), applied or not.
func (s *Spec[F]) NumA() int {
	return s.a.Len()
}

// B returns the feed-forward coefficients as given.
func (s *Spec[F]) B() []F {
	return append([]F(nil), s.b.Values()...)
}

// A returns the feedback coefficients as given.
func (s *Spec[F]) A() []F {
	return append([]F(nil), s.a.Values()...)
}

// Feedback reports whether a[] participates in processing.
func (s *Spec[F]) Feedback() bool {
	return s.feedback
}

// Order returns the length of the output history used by the recursion.
func (s *Spec[F]) Order() int {
	return s.order
}

// DCGain returns the filter's gain at 0 Hz: Σb for FIR, Σb/Σa with feedback.
// For an unstable or DC-blocking denominator (Σa == 0) it returns +Inf.
func (s *Spec[F]) DCGain() float64 {
	num := float64(s.ops.Sum(s.b.Values()))
	if !s.feedback {
		return num
	}
	den := float64(s.ops.Sum(s.a.Values()))
	if den == 0 {
		return math.Inf(1)
	}
	return num / den
}

// historyLen returns the number of past inputs the FIR term needs (Mb-1).
func (s *Spec[F]) historyLen() int {
	return max(s.b.Len()-1, 0)
}
