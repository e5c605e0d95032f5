package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of a sine at freq cycles per sample with amplitude amp.
func Sine[F Float](n int, freq, amp float64) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(amp * math.Sin(2*math.Pi*freq*float64(i)))
	}
	return s
}

// Noise returns n uniform samples in [-1, 1) from a seeded generator, so the
// same seed always yields the same signal.
func Noise[F Float](n int, seed uint64) []F {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := make([]F, n)
	for i := range s {
		s[i] = F(rng.Float64()*2 - 1)
	}
	return s
}

// Impulse returns n samples with a unit sample at position at.
func Impulse[F Float](n, at int) []F {
	s := make([]F, n)
	if at >= 0 && at < n {
		s[at] = 1
	}
	return s
}

// Ramp returns 1, 2, ..., n.
func Ramp[F Float](n int) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(i + 1)
	}
	return s
}

// Constant returns n copies of v.
func Constant[F Float](n int, v F) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Partition splits total into block sizes drawn uniformly from [1, maxBlock]
// using a seeded generator. The sizes sum to total.
func Partition(total, maxBlock int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	var sizes []int
	for total > 0 {
		n := min(1+rng.IntN(maxBlock), total)
		sizes = append(sizes, n)
		total -= n
	}
	return sizes
}
