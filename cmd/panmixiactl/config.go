package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	api "panmixia/pkg/panmixia"
)

// experimentConfig is the TOML shape of an experiment file. Flags that were
// set explicitly on the command line take precedence over file values.
type experimentConfig struct {
	Kind              string      `toml:"kind"`
	Objective         string      `toml:"objective"`
	Dimensions        int         `toml:"dimensions"`
	Bounds            [][]float64 `toml:"bounds"`
	Population        int         `toml:"population"`
	Generations       int         `toml:"generations"`
	CrossoverRate     *float64    `toml:"crossover_rate"`
	MutationStepRatio float64     `toml:"mutation_step_ratio"`
	Seed              *int64      `toml:"seed"`
	Workers           int         `toml:"workers"`

	Crossover string      `toml:"crossover"`
	Mutation  string      `toml:"mutation"`
	Cities    [][]float64 `toml:"cities"`
	Matrix    [][]float64 `toml:"matrix"`
}

func loadExperiment(path string) (experimentConfig, error) {
	var cfg experimentConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return experimentConfig{}, fmt.Errorf("load experiment config: %w", err)
	}
	return cfg, nil
}

func (cfg experimentConfig) continuousRequest(req api.ContinuousRequest, set map[string]bool) (api.ContinuousRequest, error) {
	if cfg.Kind != "" && cfg.Kind != "continuous" {
		return api.ContinuousRequest{}, fmt.Errorf("experiment kind %q is not a continuous run", cfg.Kind)
	}

	if !set["objective"] && cfg.Objective != "" {
		req.Objective = cfg.Objective
	}
	if !set["dims"] && cfg.Dimensions > 0 {
		req.Dimensions = cfg.Dimensions
	}
	if !set["pop"] && cfg.Population > 0 {
		req.PopulationSize = cfg.Population
	}
	if !set["gens"] && cfg.Generations > 0 {
		req.Generations = cfg.Generations
	}
	if !set["rate"] && cfg.CrossoverRate != nil {
		req.CrossoverRate = *cfg.CrossoverRate
	}
	if !set["step-ratio"] && cfg.MutationStepRatio > 0 {
		req.MutationStepRatio = cfg.MutationStepRatio
	}
	if !set["seed"] && cfg.Seed != nil {
		req.Seed = *cfg.Seed
	}
	if !set["workers"] && cfg.Workers > 0 {
		req.Workers = cfg.Workers
	}
	if len(cfg.Bounds) > 0 {
		bounds, err := pairRows(cfg.Bounds, "bounds")
		if err != nil {
			return api.ContinuousRequest{}, err
		}
		req.Bounds = bounds
		if !set["dims"] && cfg.Dimensions == 0 {
			req.Dimensions = len(bounds)
		}
	}
	return req, nil
}

func (cfg experimentConfig) tourRequest(req api.TourRequest, set map[string]bool) (api.TourRequest, error) {
	if cfg.Kind != "" && cfg.Kind != "tour" {
		return api.TourRequest{}, fmt.Errorf("experiment kind %q is not a tour run", cfg.Kind)
	}

	if !set["crossover"] && cfg.Crossover != "" {
		req.CrossoverOp = cfg.Crossover
	}
	if !set["mutation"] && cfg.Mutation != "" {
		req.MutationOp = cfg.Mutation
	}
	if !set["pop"] && cfg.Population > 0 {
		req.PopulationSize = cfg.Population
	}
	if !set["gens"] && cfg.Generations > 0 {
		req.Generations = cfg.Generations
	}
	if !set["rate"] && cfg.CrossoverRate != nil {
		req.CrossoverRate = *cfg.CrossoverRate
	}
	if !set["seed"] && cfg.Seed != nil {
		req.Seed = *cfg.Seed
	}
	if !set["workers"] && cfg.Workers > 0 {
		req.Workers = cfg.Workers
	}
	if len(cfg.Cities) > 0 {
		cities, err := pairRows(cfg.Cities, "cities")
		if err != nil {
			return api.TourRequest{}, err
		}
		req.Cities = cities
	}
	req.Matrix = cfg.Matrix
	return req, nil
}

func pairRows(rows [][]float64, field string) ([][2]float64, error) {
	pairs := make([][2]float64, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%s row %d has %d values, want 2", field, i, len(row))
		}
		pairs[i] = [2]float64{row[0], row[1]}
	}
	return pairs, nil
}
