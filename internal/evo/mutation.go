package evo

import (
	"errors"
	"math/rand"

	"panmixia/internal/genome"
)

// BoundedPerturb mutates one uniformly chosen coordinate by a uniform delta
// in ±StepRatio·(Hi−Lo) and clamps the result back into the interval.
type BoundedPerturb struct {
	Bounds    genome.Bounds
	StepRatio float64
}

func (BoundedPerturb) Name() string {
	return "bounded_perturb"
}

func (o BoundedPerturb) Apply(rng *rand.Rand, v genome.Vector) (genome.Vector, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	if o.StepRatio <= 0 {
		return nil, errors.New("step ratio must be > 0")
	}
	if len(v) != len(o.Bounds) {
		return nil, ErrLengthMismatch
	}

	idx := rng.Intn(len(v))
	iv := o.Bounds[idx]
	delta := (rng.Float64()*2 - 1) * o.StepRatio * (iv.Hi - iv.Lo)

	mutated := v.Clone()
	mutated[idx] = iv.Clamp(mutated[idx] + delta)
	return mutated, nil
}

// PointSwap exchanges the values at two distinct uniformly chosen positions.
type PointSwap struct{}

func (PointSwap) Name() string {
	return "point_swap"
}

func (PointSwap) Apply(rng *rand.Rand, p genome.Permutation) (genome.Permutation, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	if len(p) < 2 {
		return nil, ErrGenomeTooShort
	}

	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}

	mutated := p.Clone()
	mutated[i], mutated[j] = mutated[j], mutated[i]
	return mutated, nil
}

// Inversion reverses the sub-sequence between two distinct uniformly chosen
// positions, endpoints included.
type Inversion struct{}

func (Inversion) Name() string {
	return "inversion"
}

func (Inversion) Apply(rng *rand.Rand, p genome.Permutation) (genome.Permutation, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	if len(p) < 2 {
		return nil, ErrGenomeTooShort
	}

	lo, hi := cutPoints(rng, len(p))
	mutated := p.Clone()
	for lo < hi {
		mutated[lo], mutated[hi] = mutated[hi], mutated[lo]
		lo++
		hi--
	}
	return mutated, nil
}
