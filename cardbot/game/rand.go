package game

import "math/rand"

// Rand is the randomness seam for the weighted pick; tests inject a
// deterministic implementation.
type Rand interface {
	Float64() float64
}

// systemRand delegates to the package-level math/rand source, which is
// safe for concurrent use.
type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand returns the production randomness source.
func SystemRand() Rand { return systemRand{} }
