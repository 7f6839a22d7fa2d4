// Package core holds small helpers shared by the simulations.
package core

import "math/rand/v2"

// golden mixes the seed into the second PCG word so that nearby seeds do not
// start from nearby states.
const golden = 0x9e3779b97f4a7c15

// NewRand returns a deterministic generator: equal seeds give equal streams.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^golden))
}

// FillUnit fills buf with uniform values in [0, 1).
func FillUnit(r *rand.Rand, buf []float32) {
	for i := range buf {
		buf[i] = r.Float32()
	}
}
