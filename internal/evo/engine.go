package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"panmixia/internal/objective"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// Individual pairs a genome with its objective score. Individuals are value
// types; the engine copies them and never shares them mutably across
// goroutines.
type Individual[G any] struct {
	Genome G
	Score  float64
}

// Initializer draws one random genome for the seed population.
type Initializer[G any] func(rng *rand.Rand) G

type Config[G any] struct {
	Objective      objective.Objective[G]
	Crossover      Crossover[G]
	Mutation       Mutation[G]
	Initialize     Initializer[G]
	PopulationSize int
	CrossoverRate  float64
	Generations    int
	Workers        int
	Seed           int64
}

type Result[G any] struct {
	// Best is the elite of the final generation's retained pool. It is not
	// a running best-ever incumbent; truncation selection can in rare tie
	// scenarios displace an earlier best before the run ends.
	Best       Individual[G]
	Population []Individual[G]
	// History holds the retained scores of every generation in rank order,
	// one row per generation.
	History [][]float64
}

// Engine evolves a fixed-size population over discrete generations:
// pair parents, recombine or mutate, score offspring, then truncate the
// merged parent+offspring pool back to the population size.
type Engine[G any] struct {
	cfg Config[G]
	rng *rand.Rand
}

func New[G any](cfg Config[G]) (*Engine[G], error) {
	if cfg.Objective == nil {
		return nil, fmt.Errorf("%w: objective is required", ErrInvalidConfig)
	}
	if cfg.Crossover == nil {
		return nil, fmt.Errorf("%w: crossover operator is required", ErrInvalidConfig)
	}
	if cfg.Mutation == nil {
		return nil, fmt.Errorf("%w: mutation operator is required", ErrInvalidConfig)
	}
	if cfg.Initialize == nil {
		return nil, fmt.Errorf("%w: initializer is required", ErrInvalidConfig)
	}
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("%w: population size must be >= 2, got %d", ErrInvalidConfig, cfg.PopulationSize)
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("%w: crossover rate must be in [0,1], got %v", ErrInvalidConfig, cfg.CrossoverRate)
	}
	if cfg.Generations < 1 {
		return nil, fmt.Errorf("%w: generations must be >= 1, got %d", ErrInvalidConfig, cfg.Generations)
	}
	if cfg.PopulationSize%2 != 0 {
		cfg.PopulationSize++
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Engine[G]{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// PopulationSize reports the effective population size after rounding up to
// even.
func (e *Engine[G]) PopulationSize() int {
	return e.cfg.PopulationSize
}

// Run initializes a random population and drives it through the configured
// number of generations. A failing objective evaluation aborts the run
// immediately; there is no retry.
func (e *Engine[G]) Run(ctx context.Context) (Result[G], error) {
	np := e.cfg.PopulationSize
	population := make([]Individual[G], np)
	for i := range population {
		population[i] = Individual[G]{Genome: e.cfg.Initialize(e.rng)}
	}
	if err := e.evaluate(ctx, population); err != nil {
		return Result[G]{}, err
	}

	history := make([][]float64, 0, e.cfg.Generations)
	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result[G]{}, err
		}

		next, err := e.step(ctx, population)
		if err != nil {
			return Result[G]{}, err
		}
		population = next

		row := make([]float64, np)
		for i, ind := range population {
			row[i] = ind.Score
		}
		history = append(history, row)
	}

	return Result[G]{
		Best:       population[0],
		Population: population,
		History:    history,
	}, nil
}

// step produces one generation: random disjoint parent pairs, crossover with
// probability CrossoverRate (otherwise both parents mutate independently),
// offspring scoring, then truncation selection over the merged 2·np pool
// with uniformly random tie-breaking. The returned population is sorted by
// rank, best first.
func (e *Engine[G]) step(ctx context.Context, parents []Individual[G]) ([]Individual[G], error) {
	np := len(parents)
	order := e.rng.Perm(np)

	offspring := make([]Individual[G], 0, np)
	for k := 0; k+1 < np; k += 2 {
		a := parents[order[k]]
		b := parents[order[k+1]]

		if e.rng.Float64() < e.cfg.CrossoverRate {
			c1, c2, err := e.cfg.Crossover.Apply(e.rng, a.Genome, b.Genome)
			if err != nil {
				return nil, fmt.Errorf("crossover %s: %w", e.cfg.Crossover.Name(), err)
			}
			offspring = append(offspring, Individual[G]{Genome: c1}, Individual[G]{Genome: c2})
			continue
		}

		m1, err := e.cfg.Mutation.Apply(e.rng, a.Genome)
		if err != nil {
			return nil, fmt.Errorf("mutation %s: %w", e.cfg.Mutation.Name(), err)
		}
		m2, err := e.cfg.Mutation.Apply(e.rng, b.Genome)
		if err != nil {
			return nil, fmt.Errorf("mutation %s: %w", e.cfg.Mutation.Name(), err)
		}
		offspring = append(offspring, Individual[G]{Genome: m1}, Individual[G]{Genome: m2})
	}

	if err := e.evaluate(ctx, offspring); err != nil {
		return nil, err
	}

	pool := make([]Individual[G], 0, 2*np)
	pool = append(pool, parents...)
	pool = append(pool, offspring...)

	// Exact-score ties break uniformly at random, not by pool index, to
	// avoid positional bias in what survives truncation.
	ties := make([]float64, len(pool))
	for i := range ties {
		ties[i] = e.rng.Float64()
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(x, y int) bool {
		i, j := idx[x], idx[y]
		if pool[i].Score != pool[j].Score {
			return pool[i].Score < pool[j].Score
		}
		return ties[i] < ties[j]
	})

	retained := make([]Individual[G], np)
	for i := 0; i < np; i++ {
		retained[i] = pool[idx[i]]
	}
	return retained, nil
}

// evaluate scores every individual in place. Scoring fans out over a worker
// pool; objectives are pure, so parallel evaluation cannot perturb the run's
// RNG stream.
func (e *Engine[G]) evaluate(ctx context.Context, population []Individual[G]) error {
	type job struct {
		idx    int
		genome G
	}
	type result struct {
		idx   int
		score float64
		err   error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := e.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				score, err := e.cfg.Objective.Evaluate(ctx, j.genome)
				results <- result{idx: j.idx, score: score, err: err}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i, genome: population[i].Genome}
	}
	close(jobs)

	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			return fmt.Errorf("evaluate %s: %w", e.cfg.Objective.Name(), res.err)
		}
		population[res.idx].Score = res.score
	}
	return nil
}
