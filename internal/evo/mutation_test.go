package evo

import (
	"math/rand"
	"reflect"
	"testing"

	"panmixia/internal/genome"
)

func TestPointSwapSwapsExactlyTwoPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	p := genome.Permutation{0, 1, 2, 3, 4, 5}

	for trial := 0; trial < 100; trial++ {
		mutated, err := (PointSwap{}).Apply(rng, p)
		if err != nil {
			t.Fatalf("point swap: %v", err)
		}
		if err := mutated.Validate(); err != nil {
			t.Fatalf("point swap broke the permutation: %v", err)
		}
		changed := 0
		for i := range p {
			if mutated[i] != p[i] {
				changed++
			}
		}
		if changed != 2 {
			t.Fatalf("expected exactly 2 changed positions, got %d (%v)", changed, mutated)
		}
	}
}

func TestInversionPreservesPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for n := 2; n <= 10; n++ {
		p := genome.RandomPermutation(rng, n)
		for trial := 0; trial < 50; trial++ {
			mutated, err := (Inversion{}).Apply(rng, p)
			if err != nil {
				t.Fatalf("inversion n=%d: %v", n, err)
			}
			if err := mutated.Validate(); err != nil {
				t.Fatalf("inversion broke the permutation: %v", err)
			}
		}
	}
}

func TestInversionReversesContiguousSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p := genome.Permutation{0, 1, 2, 3, 4, 5, 6, 7}

	mutated, err := (Inversion{}).Apply(rng, p)
	if err != nil {
		t.Fatalf("inversion: %v", err)
	}
	// Identity input: the mutated genome must be the identity with exactly
	// one contiguous strictly descending run.
	lo := 0
	for lo < len(mutated) && mutated[lo] == lo {
		lo++
	}
	hi := len(mutated) - 1
	for hi >= 0 && mutated[hi] == hi {
		hi--
	}
	if lo >= hi {
		t.Fatalf("expected a reversed segment, got %v", mutated)
	}
	for i := lo; i <= hi; i++ {
		if mutated[i] != hi-(i-lo) {
			t.Fatalf("segment [%d,%d] is not a reversal: %v", lo, hi, mutated)
		}
	}
}

func TestBoundedPerturbChangesOneCoordinateWithinBounds(t *testing.T) {
	bounds := genome.Bounds{{Lo: -3, Hi: 3}, {Lo: 0, Hi: 1}, {Lo: -10, Hi: 10}}
	op := BoundedPerturb{Bounds: bounds, StepRatio: 0.2}
	rng := rand.New(rand.NewSource(13))
	v := genome.Vector{0, 0.5, -2}

	for trial := 0; trial < 200; trial++ {
		mutated, err := op.Apply(rng, v)
		if err != nil {
			t.Fatalf("bounded perturb: %v", err)
		}
		changed := 0
		for i := range v {
			if mutated[i] < bounds[i].Lo || mutated[i] > bounds[i].Hi {
				t.Fatalf("coordinate %d escaped bounds: %v", i, mutated[i])
			}
			if mutated[i] != v[i] {
				changed++
				step := op.StepRatio * (bounds[i].Hi - bounds[i].Lo)
				if diff := mutated[i] - v[i]; diff > step || diff < -step {
					t.Fatalf("coordinate %d moved %v, max step is %v", i, diff, step)
				}
			}
		}
		if changed > 1 {
			t.Fatalf("expected at most one perturbed coordinate, got %d", changed)
		}
	}
}

func TestBoundedPerturbClampsExactlyToBound(t *testing.T) {
	bounds := genome.Bounds{{Lo: 0, Hi: 1}}
	op := BoundedPerturb{Bounds: bounds, StepRatio: 0.5}
	rng := rand.New(rand.NewSource(2))

	// Starting on the upper bound, roughly half of the draws push outward
	// and must land exactly on the bound.
	sawClampHigh := false
	v := genome.Vector{1}
	for trial := 0; trial < 100; trial++ {
		mutated, err := op.Apply(rng, v)
		if err != nil {
			t.Fatalf("bounded perturb: %v", err)
		}
		if mutated[0] > 1 || mutated[0] < 0 {
			t.Fatalf("escaped bounds: %v", mutated[0])
		}
		if mutated[0] == 1 {
			sawClampHigh = true
		}
	}
	if !sawClampHigh {
		t.Fatal("never clamped to the upper bound")
	}
}

func TestMutationLeavesInputIntact(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	p := genome.Permutation{3, 0, 2, 1}
	pCopy := p.Clone()
	if _, err := (PointSwap{}).Apply(rng, p); err != nil {
		t.Fatalf("point swap: %v", err)
	}
	if _, err := (Inversion{}).Apply(rng, p); err != nil {
		t.Fatalf("inversion: %v", err)
	}
	if !reflect.DeepEqual(p, pCopy) {
		t.Fatal("mutation operators must not modify their input")
	}

	bounds := genome.Bounds{{Lo: -1, Hi: 1}}
	v := genome.Vector{0.5}
	if _, err := (BoundedPerturb{Bounds: bounds, StepRatio: 0.1}).Apply(rng, v); err != nil {
		t.Fatalf("bounded perturb: %v", err)
	}
	if v[0] != 0.5 {
		t.Fatal("bounded perturb modified its input")
	}
}

func TestMutationInputValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := (PointSwap{}).Apply(nil, genome.Permutation{0, 1}); err != ErrNilRand {
		t.Fatalf("expected ErrNilRand, got %v", err)
	}
	if _, err := (Inversion{}).Apply(rng, genome.Permutation{0}); err != ErrGenomeTooShort {
		t.Fatalf("expected ErrGenomeTooShort, got %v", err)
	}
	bad := BoundedPerturb{Bounds: genome.Bounds{{Lo: 0, Hi: 1}}, StepRatio: 0}
	if _, err := bad.Apply(rng, genome.Vector{0}); err == nil {
		t.Fatal("expected error for non-positive step ratio")
	}
	mismatch := BoundedPerturb{Bounds: genome.Bounds{{Lo: 0, Hi: 1}}, StepRatio: 0.1}
	if _, err := mismatch.Apply(rng, genome.Vector{0, 0}); err != ErrLengthMismatch {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}
