package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"panmixia/internal/stats"
	"panmixia/internal/storage"
	api "panmixia/pkg/panmixia"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runContinuous(ctx, args[1:])
	case "tsp":
		return runTour(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: panmixiactl <init|run|tsp|runs|fitness|best> [flags]", msg)
}

func addStoreFlags(fs *flag.FlagSet) (*string, *string) {
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "panmixia.db", "sqlite database path")
	return storeKind, dbPath
}

func newClient(storeKind, dbPath string) (*api.Client, error) {
	return api.New(api.Options{StoreKind: storeKind, DBPath: dbPath})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runContinuous(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional experiment config TOML path")
	objectiveName := fs.String("objective", "sphere", "objective: sphere|rosenbrock|rastrigin")
	dimensions := fs.Int("dims", 2, "search space dimensionality")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	crossoverRate := fs.Float64("rate", 0.7, "crossover rate in [0,1]")
	stepRatio := fs.Float64("step-ratio", 0.02, "mutation step as a fraction of interval width")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "evaluation worker count")
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.ContinuousRequest{
		Objective:         *objectiveName,
		Dimensions:        *dimensions,
		PopulationSize:    *population,
		CrossoverRate:     *crossoverRate,
		Generations:       *generations,
		MutationStepRatio: *stepRatio,
		Seed:              *seed,
		Workers:           *workers,
	}
	if *configPath != "" {
		exp, err := loadExperiment(*configPath)
		if err != nil {
			return err
		}
		req, err = exp.continuousRequest(req, visitedFlags(fs))
		if err != nil {
			return err
		}
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, err := client.OptimizeContinuous(ctx, req)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func runTour(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tsp", flag.ContinueOnError)
	configPath := fs.String("config", "", "experiment config TOML path with cities or a distance matrix")
	crossoverOp := fs.String("crossover", "pmx", "crossover operator: pmx|ox|cx")
	mutationOp := fs.String("mutation", "point_swap", "mutation operator: point_swap|inversion")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	crossoverRate := fs.Float64("rate", 0.7, "crossover rate in [0,1]")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "evaluation worker count")
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("tsp requires --config with cities or a distance matrix")
	}

	exp, err := loadExperiment(*configPath)
	if err != nil {
		return err
	}
	req, err := exp.tourRequest(api.TourRequest{
		CrossoverOp:    *crossoverOp,
		MutationOp:     *mutationOp,
		PopulationSize: *population,
		CrossoverRate:  *crossoverRate,
		Generations:    *generations,
		Seed:           *seed,
		Workers:        *workers,
	}, visitedFlags(fs))
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, err := client.OptimizeTour(ctx, req)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func printSummary(summary api.RunSummary) {
	evaluations := int64(len(summary.History)) * 2 * int64(len(summary.FinalScores))
	fmt.Printf("run completed run_id=%s kind=%s objective=%s evaluations=%s\n",
		summary.RunID, summary.Kind, summary.Objective, humanize.Comma(evaluations))
	for i, best := range summary.BestByGeneration {
		fmt.Printf("generation=%d best_score=%.6f\n", i+1, best)
	}
	fmt.Printf("final_best_score=%.6f\n", summary.BestScore)
	if summary.BestTour != nil {
		fmt.Printf("best_tour=%v\n", summary.BestTour)
	}
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	runs, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s kind=%s objective=%s pop=%s gens=%s seed=%d best_score=%.6f\n",
			r.RunID,
			r.CreatedAtUTC,
			r.Kind,
			r.Objective,
			humanize.Comma(int64(r.PopulationSize)),
			humanize.Comma(int64(r.Generations)),
			r.Seed,
			r.BestScore,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id (defaults to the most recent run)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	csvOut := fs.Bool("csv", false, "emit per-generation history as CSV")
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jsonOut && *csvOut {
		return errors.New("use either --json or --csv, not both")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	if *csvOut {
		history, err := client.History(ctx, *runID)
		if err != nil {
			return err
		}
		return stats.WriteHistoryCSV(os.Stdout, history)
	}

	points, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}
	for _, p := range points {
		fmt.Printf("generation=%d best=%.6f mean=%.6f worst=%.6f\n", p.Generation, p.Best, p.Mean, p.Worst)
	}
	return nil
}

func runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id (defaults to the most recent run)")
	jsonOut := fs.Bool("json", false, "emit best genome as JSON")
	storeKind, dbPath := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	best, err := client.BestGenome(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(best)
	}
	if best.Tour != nil {
		fmt.Printf("run_id=%s score=%.6f tour=%v\n", best.RunID, best.Score, best.Tour)
		return nil
	}
	fmt.Printf("run_id=%s score=%.6f vector=%v\n", best.RunID, best.Score, best.Vector)
	return nil
}

func visitedFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
