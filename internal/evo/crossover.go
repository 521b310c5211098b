package evo

import (
	"fmt"
	"math/rand"

	"panmixia/internal/genome"
)

// UniformSwap recombines two bounded vectors by exchanging each coordinate
// between the parents with probability 1/2. Offspring stay inside the run's
// bounds because both parents do.
type UniformSwap struct{}

func (UniformSwap) Name() string {
	return "uniform_swap"
}

func (UniformSwap) Apply(rng *rand.Rand, a, b genome.Vector) (genome.Vector, genome.Vector, error) {
	if rng == nil {
		return nil, nil, ErrNilRand
	}
	if len(a) != len(b) {
		return nil, nil, ErrLengthMismatch
	}
	c1 := a.Clone()
	c2 := b.Clone()
	for i := range c1 {
		if rng.Float64() < 0.5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return c1, c2, nil
}

// PMX is partially-mapped crossover over permutations. Two distinct cut
// points are drawn; the full-span pair (0, n-1) returns the parents
// unchanged rather than recombining.
type PMX struct{}

func (PMX) Name() string {
	return "pmx"
}

func (PMX) Apply(rng *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	lo, hi, done, err := drawCuts(rng, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	return pmxChild(a, b, lo, hi), pmxChild(b, a, lo, hi), nil
}

// PMXAt is PMX with fixed cut points, for deterministic construction.
type PMXAt struct {
	Lo int
	Hi int
}

func (PMXAt) Name() string {
	return "pmx_at"
}

func (o PMXAt) Apply(_ *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	done, err := checkCuts(o.Lo, o.Hi, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	return pmxChild(a, b, o.Lo, o.Hi), pmxChild(b, a, o.Lo, o.Hi), nil
}

// pmxChild copies donor[lo..hi] into the child and fills every other
// position from base, chasing the segment mapping until the value no longer
// collides. Conflicts always resolve because the mapping stays inside the
// finite segment.
func pmxChild(base, donor genome.Permutation, lo, hi int) genome.Permutation {
	n := len(base)
	child := make(genome.Permutation, n)
	segPos := make(map[int]int, hi-lo+1)
	for k := lo; k <= hi; k++ {
		child[k] = donor[k]
		segPos[donor[k]] = k
	}
	for i := 0; i < n; i++ {
		if i >= lo && i <= hi {
			continue
		}
		v := base[i]
		for {
			k, ok := segPos[v]
			if !ok {
				break
			}
			v = base[k]
		}
		child[i] = v
	}
	return child
}

// OX is order crossover: the child keeps one parent's segment in place and
// fills the rest with the other parent's values in their rotated relative
// order. The full-span cut pair returns the parents unchanged.
type OX struct{}

func (OX) Name() string {
	return "ox"
}

func (OX) Apply(rng *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	lo, hi, done, err := drawCuts(rng, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	return oxChild(a, b, lo, hi), oxChild(b, a, lo, hi), nil
}

// OXAt is OX with fixed cut points, for deterministic construction.
type OXAt struct {
	Lo int
	Hi int
}

func (OXAt) Name() string {
	return "ox_at"
}

func (o OXAt) Apply(_ *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	done, err := checkCuts(o.Lo, o.Hi, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	return oxChild(a, b, o.Lo, o.Hi), oxChild(b, a, o.Lo, o.Hi), nil
}

// oxChild keeps base[lo..hi] in place and fills the remaining positions,
// wrapping from hi+1, with donor's values scanned from hi+1 in donor order,
// skipping values already inside the segment.
func oxChild(base, donor genome.Permutation, lo, hi int) genome.Permutation {
	n := len(base)
	child := make(genome.Permutation, n)
	inSeg := make(map[int]bool, hi-lo+1)
	for k := lo; k <= hi; k++ {
		child[k] = base[k]
		inSeg[base[k]] = true
	}
	pos := (hi + 1) % n
	for k := 0; k < n; k++ {
		v := donor[(hi+1+k)%n]
		if inSeg[v] {
			continue
		}
		child[pos] = v
		pos = (pos + 1) % n
	}
	return child
}

// CX is cycle crossover. The cycle starting at position 0 keeps parent-1's
// values in offspring-1 and parent-2's in offspring-2; all remaining
// positions take the other parent's values. Both offspring cycles are
// computed explicitly so the construction stays valid for any label set.
// Cut points are still drawn, and the full-span pair (0, n-1) returns the
// parents unchanged, matching the other crossover variants.
type CX struct{}

func (CX) Name() string {
	return "cx"
}

func (CX) Apply(rng *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	_, _, done, err := drawCuts(rng, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	c1, c2 := cycleChildren(a, b)
	return c1, c2, nil
}

// CXAt is CX with fixed cut points, for deterministic construction.
type CXAt struct {
	Lo int
	Hi int
}

func (CXAt) Name() string {
	return "cx_at"
}

func (o CXAt) Apply(_ *rand.Rand, a, b genome.Permutation) (genome.Permutation, genome.Permutation, error) {
	done, err := checkCuts(o.Lo, o.Hi, a, b)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return a.Clone(), b.Clone(), nil
	}
	c1, c2 := cycleChildren(a, b)
	return c1, c2, nil
}

func cycleChildren(a, b genome.Permutation) (genome.Permutation, genome.Permutation) {
	n := len(a)
	posInA := make(map[int]int, n)
	for i, v := range a {
		posInA[v] = i
	}
	inCycle := make([]bool, n)
	for i := 0; !inCycle[i]; i = posInA[b[i]] {
		inCycle[i] = true
	}

	c1 := make(genome.Permutation, n)
	c2 := make(genome.Permutation, n)
	for i := range a {
		if inCycle[i] {
			c1[i], c2[i] = a[i], b[i]
		} else {
			c1[i], c2[i] = b[i], a[i]
		}
	}
	return c1, c2
}

// drawCuts validates the parents, draws sorted distinct cut points, and
// reports whether the degenerate full-span pair was drawn.
func drawCuts(rng *rand.Rand, a, b genome.Permutation) (lo, hi int, degenerate bool, err error) {
	if rng == nil {
		return 0, 0, false, ErrNilRand
	}
	if len(a) != len(b) {
		return 0, 0, false, ErrLengthMismatch
	}
	if len(a) < 2 {
		return 0, 0, false, ErrGenomeTooShort
	}
	lo, hi = cutPoints(rng, len(a))
	return lo, hi, lo == 0 && hi == len(a)-1, nil
}

func checkCuts(lo, hi int, a, b genome.Permutation) (degenerate bool, err error) {
	if len(a) != len(b) {
		return false, ErrLengthMismatch
	}
	if len(a) < 2 {
		return false, ErrGenomeTooShort
	}
	if lo < 0 || hi >= len(a) || lo >= hi {
		return false, fmt.Errorf("cut points out of range: (%d,%d) for n=%d", lo, hi, len(a))
	}
	return lo == 0 && hi == len(a)-1, nil
}
