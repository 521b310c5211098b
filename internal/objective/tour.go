package objective

import (
	"context"
	"errors"
	"fmt"
	"math"

	"panmixia/internal/genome"
)

var ErrInvalidMatrix = errors.New("invalid distance matrix")

// DistanceMatrix is a square, symmetric, non-negative pairwise distance
// table. The diagonal is unconstrained; a closed tour never reads it.
type DistanceMatrix [][]float64

func (d DistanceMatrix) Validate() error {
	n := len(d)
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 cities, got %d", ErrInvalidMatrix, n)
	}
	for i, row := range d {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		for j, v := range row {
			if i == j {
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("%w: d[%d][%d]=%v", ErrInvalidMatrix, i, j, v)
			}
			if d[j][i] != v {
				return fmt.Errorf("%w: asymmetric at (%d,%d): %v vs %v", ErrInvalidMatrix, i, j, v, d[j][i])
			}
		}
	}
	return nil
}

// Point is a city position for Euclidean instances.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// EuclideanDistances builds a symmetric distance matrix from city
// coordinates. The diagonal is zero.
func EuclideanDistances(cities []Point) DistanceMatrix {
	n := len(cities)
	d := make(DistanceMatrix, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := math.Hypot(cities[i].X-cities[j].X, cities[i].Y-cities[j].Y)
			d[i][j] = dist
			d[j][i] = dist
		}
	}
	return d
}

// TourLength scores a permutation genome as the closed-tour cost
// Σ d[z_i][z_{i+1}] + d[z_{n-1}][z_0].
type TourLength struct {
	distances DistanceMatrix
}

func NewTourLength(d DistanceMatrix) (TourLength, error) {
	if err := d.Validate(); err != nil {
		return TourLength{}, err
	}
	return TourLength{distances: d}, nil
}

func (TourLength) Name() string {
	return "tour_length"
}

func (o TourLength) Evaluate(_ context.Context, p genome.Permutation) (float64, error) {
	n := len(o.distances)
	if len(p) != n {
		return 0, fmt.Errorf("tour has %d cities, matrix has %d", len(p), n)
	}
	total := 0.0
	for i := 0; i+1 < n; i++ {
		total += o.distances[p[i]][p[i+1]]
	}
	total += o.distances[p[n-1]][p[0]]
	return total, nil
}

// NearestNeighborTour builds a greedy baseline: starting from the given
// city, repeatedly visit the closest unvisited city. Used for comparison
// only; the engine never calls it.
func NearestNeighborTour(d DistanceMatrix, start int) (genome.Permutation, float64, error) {
	if err := d.Validate(); err != nil {
		return nil, 0, err
	}
	n := len(d)
	if start < 0 || start >= n {
		return nil, 0, fmt.Errorf("start city %d out of range [0,%d)", start, n)
	}

	tour := make(genome.Permutation, 0, n)
	visited := make([]bool, n)
	current := start
	tour = append(tour, current)
	visited[current] = true
	total := 0.0

	for len(tour) < n {
		next := -1
		best := math.Inf(1)
		for city := 0; city < n; city++ {
			if visited[city] {
				continue
			}
			if d[current][city] < best {
				best = d[current][city]
				next = city
			}
		}
		total += best
		tour = append(tour, next)
		visited[next] = true
		current = next
	}
	total += d[current][start]

	return tour, total, nil
}
