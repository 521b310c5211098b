package panmixia

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"panmixia/internal/evo"
	"panmixia/internal/genome"
	"panmixia/internal/model"
	"panmixia/internal/objective"
	"panmixia/internal/stats"
	"panmixia/internal/storage"
)

const defaultDBPath = "panmixia.db"

type Options struct {
	StoreKind string
	DBPath    string
}

// Client wires the optimization engine to a persistence backend and exposes
// the two public entry points plus queries over persisted runs.
type Client struct {
	store storage.Store
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// ContinuousRequest configures a bounded real-vector optimization.
type ContinuousRequest struct {
	// Objective names a built-in benchmark: sphere, rosenbrock, rastrigin.
	Objective  string
	Dimensions int
	// Bounds holds one {lo, hi} pair per dimension. Empty bounds default to
	// [-5.12, 5.12] in every dimension.
	Bounds            [][2]float64
	PopulationSize    int
	CrossoverRate     float64
	Generations       int
	MutationStepRatio float64
	Seed              int64
	Workers           int
}

// TourRequest configures a closed-tour permutation optimization. Exactly one
// of Matrix and Cities must be set.
type TourRequest struct {
	Matrix         [][]float64
	Cities         [][2]float64
	CrossoverOp    string // pmx, ox, cx
	MutationOp     string // point_swap, inversion
	PopulationSize int
	CrossoverRate  float64
	Generations    int
	Seed           int64
	Workers        int
}

type RunSummary struct {
	RunID            string
	Kind             string
	Objective        string
	BestVector       []float64
	BestTour         []int
	BestScore        float64
	BestByGeneration []float64
	// History holds the retained scores of every generation in rank order.
	History [][]float64
	// FinalVectors / FinalTours hold the last retained population, best
	// first; one of them is set depending on the run kind.
	FinalVectors [][]float64
	FinalTours   [][]int
	FinalScores  []float64
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Kind           string
	Objective      string
	PopulationSize int
	Generations    int
	Seed           int64
	BestScore      float64
}

type GenerationPoint struct {
	Generation int
	Best       float64
	Mean       float64
	Worst      float64
}

type BestItem struct {
	RunID  string
	Vector []float64
	Tour   []int
	Score  float64
}

// OptimizeContinuous evolves a population of bounded real vectors against a
// named benchmark objective and persists the run.
func (c *Client) OptimizeContinuous(ctx context.Context, req ContinuousRequest) (RunSummary, error) {
	if req.Objective == "" {
		req.Objective = "sphere"
	}
	if req.Dimensions <= 0 {
		if len(req.Bounds) > 0 {
			req.Dimensions = len(req.Bounds)
		} else {
			req.Dimensions = 2
		}
	}
	if len(req.Bounds) == 0 {
		for i := 0; i < req.Dimensions; i++ {
			req.Bounds = append(req.Bounds, [2]float64{-5.12, 5.12})
		}
	}
	if len(req.Bounds) != req.Dimensions {
		return RunSummary{}, fmt.Errorf("got %d bounds for %d dimensions", len(req.Bounds), req.Dimensions)
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = 50
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.MutationStepRatio <= 0 {
		req.MutationStepRatio = 0.02
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	obj, err := continuousObjectiveFromName(req.Objective)
	if err != nil {
		return RunSummary{}, err
	}

	bounds := make(genome.Bounds, req.Dimensions)
	for i, pair := range req.Bounds {
		bounds[i] = genome.Interval{Lo: pair[0], Hi: pair[1]}
	}
	if err := bounds.Validate(); err != nil {
		return RunSummary{}, err
	}

	eng, err := evo.New(evo.Config[genome.Vector]{
		Objective:      obj,
		Crossover:      evo.UniformSwap{},
		Mutation:       evo.BoundedPerturb{Bounds: bounds, StepRatio: req.MutationStepRatio},
		Initialize:     func(rng *rand.Rand) genome.Vector { return genome.RandomVector(rng, bounds) },
		PopulationSize: req.PopulationSize,
		CrossoverRate:  req.CrossoverRate,
		Generations:    req.Generations,
		Workers:        req.Workers,
		Seed:           req.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := eng.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              newRunID(req.Objective),
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		Kind:            model.RunContinuous,
		Objective:       req.Objective,
		Dimensions:      req.Dimensions,
		PopulationSize:  eng.PopulationSize(),
		Generations:     req.Generations,
		CrossoverRate:   req.CrossoverRate,
		CrossoverOp:     evo.UniformSwap{}.Name(),
		MutationOp:      evo.BoundedPerturb{}.Name(),
		Seed:            req.Seed,
		BestScore:       result.Best.Score,
	}
	best := model.BestGenomeRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           run.ID,
		Vector:          append([]float64(nil), result.Best.Genome...),
		Score:           result.Best.Score,
	}
	if err := c.persistRun(ctx, run, result.History, best); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:            run.ID,
		Kind:             string(run.Kind),
		Objective:        run.Objective,
		BestVector:       best.Vector,
		BestScore:        result.Best.Score,
		BestByGeneration: bestByGeneration(result.History),
		History:          result.History,
		FinalScores:      make([]float64, len(result.Population)),
	}
	summary.FinalVectors = make([][]float64, len(result.Population))
	for i, ind := range result.Population {
		summary.FinalVectors[i] = append([]float64(nil), ind.Genome...)
		summary.FinalScores[i] = ind.Score
	}
	return summary, nil
}

// OptimizeTour evolves a population of closed tours over a distance matrix
// and persists the run.
func (c *Client) OptimizeTour(ctx context.Context, req TourRequest) (RunSummary, error) {
	if len(req.Matrix) == 0 && len(req.Cities) == 0 {
		return RunSummary{}, fmt.Errorf("either a distance matrix or city coordinates are required")
	}
	if len(req.Matrix) > 0 && len(req.Cities) > 0 {
		return RunSummary{}, fmt.Errorf("distance matrix and city coordinates are mutually exclusive")
	}
	if req.CrossoverOp == "" {
		req.CrossoverOp = "pmx"
	}
	if req.MutationOp == "" {
		req.MutationOp = "point_swap"
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = 50
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	matrix := objective.DistanceMatrix(req.Matrix)
	if len(req.Cities) > 0 {
		cities := make([]objective.Point, len(req.Cities))
		for i, c := range req.Cities {
			cities[i] = objective.Point{X: c[0], Y: c[1]}
		}
		matrix = objective.EuclideanDistances(cities)
	}
	tourLength, err := objective.NewTourLength(matrix)
	if err != nil {
		return RunSummary{}, err
	}

	crossover, err := tourCrossoverFromName(req.CrossoverOp)
	if err != nil {
		return RunSummary{}, err
	}
	mutation, err := tourMutationFromName(req.MutationOp)
	if err != nil {
		return RunSummary{}, err
	}

	n := len(matrix)
	eng, err := evo.New(evo.Config[genome.Permutation]{
		Objective:      tourLength,
		Crossover:      crossover,
		Mutation:       mutation,
		Initialize:     func(rng *rand.Rand) genome.Permutation { return genome.RandomPermutation(rng, n) },
		PopulationSize: req.PopulationSize,
		CrossoverRate:  req.CrossoverRate,
		Generations:    req.Generations,
		Workers:        req.Workers,
		Seed:           req.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := eng.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              newRunID("tour"),
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		Kind:            model.RunTour,
		Objective:       tourLength.Name(),
		Dimensions:      n,
		PopulationSize:  eng.PopulationSize(),
		Generations:     req.Generations,
		CrossoverRate:   req.CrossoverRate,
		CrossoverOp:     crossover.Name(),
		MutationOp:      mutation.Name(),
		Seed:            req.Seed,
		BestScore:       result.Best.Score,
	}
	best := model.BestGenomeRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           run.ID,
		Tour:            append([]int(nil), result.Best.Genome...),
		Score:           result.Best.Score,
	}
	if err := c.persistRun(ctx, run, result.History, best); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:            run.ID,
		Kind:             string(run.Kind),
		Objective:        run.Objective,
		BestTour:         best.Tour,
		BestScore:        result.Best.Score,
		BestByGeneration: bestByGeneration(result.History),
		History:          result.History,
		FinalScores:      make([]float64, len(result.Population)),
	}
	summary.FinalTours = make([][]int, len(result.Population))
	for i, ind := range result.Population {
		summary.FinalTours[i] = append([]int(nil), ind.Genome...)
		summary.FinalScores[i] = ind.Score
	}
	return summary, nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	items := make([]RunItem, len(runs))
	for i, run := range runs {
		items[i] = RunItem{
			RunID:          run.ID,
			CreatedAtUTC:   run.CreatedAtUTC,
			Kind:           string(run.Kind),
			Objective:      run.Objective,
			PopulationSize: run.PopulationSize,
			Generations:    run.Generations,
			Seed:           run.Seed,
			BestScore:      run.BestScore,
		}
	}
	return items, nil
}

// FitnessHistory returns per-generation convergence diagnostics for a run.
// An empty runID selects the most recent run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]GenerationPoint, error) {
	runID, err := c.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	points := make([]GenerationPoint, len(diagnostics))
	for i, diag := range diagnostics {
		points[i] = GenerationPoint{
			Generation: diag.Generation,
			Best:       diag.BestScore,
			Mean:       diag.MeanScore,
			Worst:      diag.WorstScore,
		}
	}
	return points, nil
}

// History returns a run's raw generations × population score matrix.
func (c *Client) History(ctx context.Context, runID string) ([][]float64, error) {
	runID, err := c.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no history for run %s", runID)
	}
	return history, nil
}

// BestGenome returns the elite of a run's final generation.
func (c *Client) BestGenome(ctx context.Context, runID string) (BestItem, error) {
	runID, err := c.resolveRunID(ctx, runID)
	if err != nil {
		return BestItem{}, err
	}
	best, ok, err := c.store.GetBestGenome(ctx, runID)
	if err != nil {
		return BestItem{}, err
	}
	if !ok {
		return BestItem{}, fmt.Errorf("no best genome for run %s", runID)
	}
	return BestItem{
		RunID:  best.RunID,
		Vector: best.Vector,
		Tour:   best.Tour,
		Score:  best.Score,
	}, nil
}

func (c *Client) persistRun(ctx context.Context, run model.RunRecord, history [][]float64, best model.BestGenomeRecord) error {
	if err := c.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	if err := c.store.SaveHistory(ctx, run.ID, history); err != nil {
		return fmt.Errorf("save history %s: %w", run.ID, err)
	}
	if err := c.store.SaveDiagnostics(ctx, run.ID, stats.Summarize(history)); err != nil {
		return fmt.Errorf("save diagnostics %s: %w", run.ID, err)
	}
	if err := c.store.SaveBestGenome(ctx, best); err != nil {
		return fmt.Errorf("save best genome %s: %w", run.ID, err)
	}
	return nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no persisted runs")
	}
	return runs[0].ID, nil
}

func newRunID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

func bestByGeneration(history [][]float64) []float64 {
	best := make([]float64, len(history))
	for g, row := range history {
		best[g] = row[0]
	}
	return best
}

func continuousObjectiveFromName(name string) (objective.Objective[genome.Vector], error) {
	switch name {
	case "sphere":
		return objective.Sphere{}, nil
	case "rosenbrock":
		return objective.Rosenbrock{}, nil
	case "rastrigin":
		return objective.Rastrigin{}, nil
	default:
		return nil, fmt.Errorf("unknown objective: %s", name)
	}
}

func tourCrossoverFromName(name string) (evo.Crossover[genome.Permutation], error) {
	switch name {
	case "pmx":
		return evo.PMX{}, nil
	case "ox":
		return evo.OX{}, nil
	case "cx":
		return evo.CX{}, nil
	default:
		return nil, fmt.Errorf("unknown crossover operator: %s", name)
	}
}

func tourMutationFromName(name string) (evo.Mutation[genome.Permutation], error) {
	switch name {
	case "point_swap", "swap":
		return evo.PointSwap{}, nil
	case "inversion":
		return evo.Inversion{}, nil
	default:
		return nil, fmt.Errorf("unknown mutation operator: %s", name)
	}
}
