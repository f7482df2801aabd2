// Package sampler provides the small random-value helpers the generator
// parameter constructors are built from. Every function consumes only the
// *rand.Rand handed to it, so a fixed seed reproduces a fixed parameter
// stream.
package sampler

import "math/rand"

// Maybe returns true with probability 1/2.
func Maybe(rng *rand.Rand) bool {
	return rng.Intn(2) == 0
}

// UniformIn returns a uniform sample in [lo, hi).
func UniformIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Range is an ordered pair of bounds values are drawn between.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange builds a Range from two bounds in either order.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// Sample returns a uniform value in [Min, Max), or Min when the bounds
// coincide.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return UniformIn(rng, r.Min, r.Max)
}
