package evo

import (
	"errors"
	"math/rand"
)

var (
	ErrNilRand        = errors.New("random source is required")
	ErrGenomeTooShort = errors.New("genome has fewer than 2 positions")
	ErrLengthMismatch = errors.New("parent genomes differ in length")
)

// Crossover recombines two parent genomes into two offspring. Operators
// never mutate their inputs and draw all randomness from the provided rng so
// a run is fully determined by its seed.
type Crossover[G any] interface {
	Name() string
	Apply(rng *rand.Rand, a, b G) (G, G, error)
}

// Mutation perturbs a single genome, returning a new genome.
type Mutation[G any] interface {
	Name() string
	Apply(rng *rand.Rand, g G) (G, error)
}

// cutPoints draws two distinct indices from {0,…,n-1} and returns them
// sorted. The caller decides what a full-span pair (0, n-1) means.
func cutPoints(rng *rand.Rand, n int) (int, int) {
	lo := rng.Intn(n)
	hi := rng.Intn(n - 1)
	if hi >= lo {
		hi++
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
