package engine

import (
	"fmt"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

// Bounded is a fixed-capacity coefficient container with an explicit logical
// length. The backing array never grows, so a Spec built from it can be
// shared by real-time code without any hidden allocation.
type Bounded[F simdops.Float] struct {
	data [MaxCoefficients]F
	n    int
}

// Set replaces the contents with values converted to F.
// It fails without modifying the container when values exceeds the capacity.
func (c *Bounded[F]) Set(values []float64) error {
	if len(values) > MaxCoefficients {
		return fmt.Errorf("%w: %d coefficients (max %d)", ErrTooManyCoefficients, len(values), MaxCoefficients)
	}
	for i, v := range values {
		c.data[i] = F(v)
	}
	clear(c.data[len(values):])
	c.n = len(values)
	return nil
}

// Len returns the logical length.
func (c *Bounded[F]) Len() int {
	return c.n
}

// Cap returns the fixed capacity.
func (c *Bounded[F]) Cap() int {
	return MaxCoefficients
}

// At returns element i. It panics if i is outside [0, Len()).
func (c *Bounded[F]) At(i int) F {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("engine: coefficient index %d out of range [0, %d)", i, c.n))
	}
	return c.data[i]
}

// Values returns a view of the live elements. Callers must not modify it.
func (c *Bounded[F]) Values() []F {
	return c.data[:c.n]
}
