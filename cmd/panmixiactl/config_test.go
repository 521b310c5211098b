package main

import (
	"os"
	"path/filepath"
	"testing"

	api "panmixia/pkg/panmixia"
)

func writeExperiment(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write experiment: %v", err)
	}
	return path
}

func TestLoadExperimentContinuous(t *testing.T) {
	path := writeExperiment(t, `
kind = "continuous"
objective = "rosenbrock"
dimensions = 2
bounds = [[-3.0, 3.0], [-3.0, 3.0]]
population = 50
generations = 100
crossover_rate = 0.7
mutation_step_ratio = 0.1
seed = 1
workers = 4
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}

	req, err := cfg.continuousRequest(api.ContinuousRequest{}, nil)
	if err != nil {
		t.Fatalf("continuous request: %v", err)
	}
	if req.Objective != "rosenbrock" || req.Dimensions != 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.PopulationSize != 50 || req.Generations != 100 || req.CrossoverRate != 0.7 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(req.Bounds) != 2 || req.Bounds[0] != [2]float64{-3, 3} {
		t.Fatalf("unexpected bounds: %+v", req.Bounds)
	}
	if req.Seed != 1 || req.Workers != 4 || req.MutationStepRatio != 0.1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestLoadExperimentFlagOverridesWin(t *testing.T) {
	path := writeExperiment(t, `
objective = "sphere"
generations = 100
seed = 9
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}

	req, err := cfg.continuousRequest(api.ContinuousRequest{
		Objective:   "rastrigin",
		Generations: 25,
		Seed:        3,
	}, map[string]bool{"objective": true, "gens": true, "seed": true})
	if err != nil {
		t.Fatalf("continuous request: %v", err)
	}
	if req.Objective != "rastrigin" || req.Generations != 25 || req.Seed != 3 {
		t.Fatalf("expected flag values to win: %+v", req)
	}
}

func TestLoadExperimentZeroCrossoverRateFromFile(t *testing.T) {
	path := writeExperiment(t, `
crossover_rate = 0.0
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}

	req, err := cfg.continuousRequest(api.ContinuousRequest{CrossoverRate: 0.7}, nil)
	if err != nil {
		t.Fatalf("continuous request: %v", err)
	}
	if req.CrossoverRate != 0 {
		t.Fatalf("expected file to set mutation-only rate 0, got %f", req.CrossoverRate)
	}
}

func TestLoadExperimentTour(t *testing.T) {
	path := writeExperiment(t, `
kind = "tour"
crossover = "ox"
mutation = "inversion"
population = 40
generations = 60
cities = [[0.0, 0.0], [1.0, 0.0], [1.0, 1.0], [0.0, 1.0]]
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}

	req, err := cfg.tourRequest(api.TourRequest{CrossoverOp: "pmx", MutationOp: "point_swap"}, nil)
	if err != nil {
		t.Fatalf("tour request: %v", err)
	}
	if req.CrossoverOp != "ox" || req.MutationOp != "inversion" {
		t.Fatalf("unexpected operators: %+v", req)
	}
	if len(req.Cities) != 4 || req.Cities[2] != [2]float64{1, 1} {
		t.Fatalf("unexpected cities: %+v", req.Cities)
	}
	if req.Matrix != nil {
		t.Fatalf("expected no matrix, got %+v", req.Matrix)
	}
}

func TestLoadExperimentKindMismatch(t *testing.T) {
	path := writeExperiment(t, `
kind = "tour"
cities = [[0.0, 0.0], [1.0, 0.0]]
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}
	if _, err := cfg.continuousRequest(api.ContinuousRequest{}, nil); err == nil {
		t.Fatal("expected kind mismatch error")
	}
}

func TestLoadExperimentRejectsMalformedRows(t *testing.T) {
	path := writeExperiment(t, `
bounds = [[-1.0, 1.0, 2.0]]
`)

	cfg, err := loadExperiment(path)
	if err != nil {
		t.Fatalf("load experiment: %v", err)
	}
	if _, err := cfg.continuousRequest(api.ContinuousRequest{}, nil); err == nil {
		t.Fatal("expected malformed bounds row error")
	}
}

func TestLoadExperimentMissingFile(t *testing.T) {
	if _, err := loadExperiment(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected missing file error")
	}
}
