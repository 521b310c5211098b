package objective

import (
	"context"
	"math"

	"panmixia/internal/genome"
)

// Objective scores a genome; lower is better. Evaluate must be deterministic
// for identical input and free of side effects. The engine treats it as a
// pure black box and may call it redundantly.
type Objective[G any] interface {
	Name() string
	Evaluate(ctx context.Context, g G) (float64, error)
}

// Func adapts a plain function to the Objective interface.
type Func[G any] struct {
	ObjectiveName string
	Fn            func(ctx context.Context, g G) (float64, error)
}

func (f Func[G]) Name() string {
	return f.ObjectiveName
}

func (f Func[G]) Evaluate(ctx context.Context, g G) (float64, error) {
	return f.Fn(ctx, g)
}

// Sphere is Σ x_i², minimized at the origin.
type Sphere struct{}

func (Sphere) Name() string {
	return "sphere"
}

func (Sphere) Evaluate(_ context.Context, v genome.Vector) (float64, error) {
	total := 0.0
	for _, x := range v {
		total += x * x
	}
	return total, nil
}

// Rosenbrock is the banana valley Σ 100(x_{i+1}-x_i²)² + (1-x_i)²,
// minimized at (1,…,1).
type Rosenbrock struct{}

func (Rosenbrock) Name() string {
	return "rosenbrock"
}

func (Rosenbrock) Evaluate(_ context.Context, v genome.Vector) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(v); i++ {
		a := v[i+1] - v[i]*v[i]
		b := 1 - v[i]
		total += 100*a*a + b*b
	}
	return total, nil
}

// Rastrigin is 10n + Σ (x_i² - 10·cos(2π·x_i)), highly multimodal,
// minimized at the origin.
type Rastrigin struct{}

func (Rastrigin) Name() string {
	return "rastrigin"
}

func (Rastrigin) Evaluate(_ context.Context, v genome.Vector) (float64, error) {
	total := 10 * float64(len(v))
	for _, x := range v {
		total += x*x - 10*math.Cos(2*math.Pi*x)
	}
	return total, nil
}
