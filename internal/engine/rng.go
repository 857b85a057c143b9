package engine

import "math/rand"

// Rand is the random source the engine draws from. *rand.Rand satisfies it.
//
// Thread-safety: the engine calls it from a single goroutine and never
// re-enters it, so implementations need no locking.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// NewRand returns a deterministic source for the given seed. Two engines built
// with the same seed and configuration produce identical layouts.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform returns a value drawn uniformly from [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
