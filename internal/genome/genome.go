package genome

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidBounds      = errors.New("invalid bounds")
	ErrInvalidPermutation = errors.New("invalid permutation")
)

// Interval is one dimension's closed feasible range.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Clamp forces x into the interval.
func (iv Interval) Clamp(x float64) float64 {
	if x < iv.Lo {
		return iv.Lo
	}
	if x > iv.Hi {
		return iv.Hi
	}
	return x
}

// Bounds holds one interval per genome dimension. It is immutable
// configuration; operators read it but never modify it.
type Bounds []Interval

func (b Bounds) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: at least one dimension is required", ErrInvalidBounds)
	}
	for i, iv := range b {
		if !(iv.Lo < iv.Hi) {
			return fmt.Errorf("%w: dimension %d has lo=%v hi=%v", ErrInvalidBounds, i, iv.Lo, iv.Hi)
		}
	}
	return nil
}

// Uniform builds n identical intervals [lo, hi].
func Uniform(n int, lo, hi float64) Bounds {
	b := make(Bounds, n)
	for i := range b {
		b[i] = Interval{Lo: lo, Hi: hi}
	}
	return b
}

// Vector is a bounded real-valued genome. Every operator output stays
// clamped inside the run's Bounds.
type Vector []float64

func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// RandomVector draws each coordinate uniformly inside its interval.
func RandomVector(rng *rand.Rand, b Bounds) Vector {
	v := make(Vector, len(b))
	for i, iv := range b {
		v[i] = iv.Lo + rng.Float64()*(iv.Hi-iv.Lo)
	}
	return v
}

// Permutation is a genome encoding a bijection on {0,…,n-1}. Every operator
// output satisfies Validate.
type Permutation []int

func (p Permutation) Clone() Permutation {
	out := make(Permutation, len(p))
	copy(out, p)
	return out
}

// Validate reports whether p contains every value in {0,…,len(p)-1} exactly once.
func (p Permutation) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPermutation)
	}
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) {
			return fmt.Errorf("%w: value %d out of range at position %d", ErrInvalidPermutation, v, i)
		}
		if seen[v] {
			return fmt.Errorf("%w: value %d repeated at position %d", ErrInvalidPermutation, v, i)
		}
		seen[v] = true
	}
	return nil
}

// RandomPermutation draws a uniformly random permutation of {0,…,n-1}.
func RandomPermutation(rng *rand.Rand, n int) Permutation {
	return Permutation(rng.Perm(n))
}
