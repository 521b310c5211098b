package objective

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panmixia/internal/genome"
)

func TestSphere(t *testing.T) {
	score, err := Sphere{}.Evaluate(context.Background(), genome.Vector{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = Sphere{}.Evaluate(context.Background(), genome.Vector{1, -2})
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)
}

func TestRosenbrockMinimum(t *testing.T) {
	score, err := Rosenbrock{}.Evaluate(context.Background(), genome.Vector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = Rosenbrock{}.Evaluate(context.Background(), genome.Vector{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestRastriginMinimum(t *testing.T) {
	score, err := Rastrigin{}.Evaluate(context.Background(), genome.Vector{0, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-12)
}

func TestFuncAdapter(t *testing.T) {
	f := Func[genome.Vector]{
		ObjectiveName: "first",
		Fn: func(_ context.Context, v genome.Vector) (float64, error) {
			return v[0], nil
		},
	}
	assert.Equal(t, "first", f.Name())
	score, err := f.Evaluate(context.Background(), genome.Vector{3.5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, score)
}
