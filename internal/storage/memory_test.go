package storage

import (
	"context"
	"reflect"
	"testing"

	"panmixia/internal/model"
)

func testRun(id, createdAt string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              id,
		CreatedAtUTC:    createdAt,
		Kind:            model.RunTour,
		Objective:       "tour_length",
		Dimensions:      10,
		PopulationSize:  60,
		Generations:     50,
		CrossoverRate:   0.7,
		CrossoverOp:     "pmx",
		MutationOp:      "point_swap",
		Seed:            11,
		BestScore:       18.5,
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := testRun("run-1", "2026-08-23T10:00:00Z")
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("round trip mismatch: %+v vs %+v", input, output)
	}

	_, ok, err = store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing run: %v", err)
	}
	if ok {
		t.Fatal("expected missing run to report !ok")
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, run := range []model.RunRecord{
		testRun("run-a", "2026-08-20T10:00:00Z"),
		testRun("run-b", "2026-08-22T10:00:00Z"),
		testRun("run-c", "2026-08-21T10:00:00Z"),
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	got := make([]string, len(runs))
	for i, run := range runs {
		got[i] = run.ID
	}
	want := []string{"run-b", "run-c", "run-a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("run order: got %v want %v", got, want)
	}
}

func TestMemoryStoreHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := [][]float64{{0.5, 0.7}, {0.3, 0.5}}
	if err := store.SaveHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}

	// The store must hold its own copy.
	input[0][0] = 99

	output, ok, err := store.GetHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted history")
	}
	if output[0][0] != 0.5 {
		t.Fatalf("store aliases caller storage: %v", output[0][0])
	}
}

func TestMemoryStoreDiagnosticsAndBestGenome(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	diagnostics := []model.GenerationDiagnostics{
		{Generation: 1, BestScore: 0.3, MeanScore: 0.6, WorstScore: 0.9},
	}
	if err := store.SaveDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	gotDiag, ok, err := store.GetDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok || len(gotDiag) != 1 || gotDiag[0].BestScore != 0.3 {
		t.Fatalf("unexpected diagnostics: %+v", gotDiag)
	}

	best := model.BestGenomeRecord{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		Tour:            []int{0, 2, 1},
		Score:           12.5,
	}
	if err := store.SaveBestGenome(ctx, best); err != nil {
		t.Fatalf("save best genome: %v", err)
	}
	gotBest, ok, err := store.GetBestGenome(ctx, "run-1")
	if err != nil {
		t.Fatalf("get best genome: %v", err)
	}
	if !ok || !reflect.DeepEqual(gotBest, best) {
		t.Fatalf("unexpected best genome: %+v", gotBest)
	}
}
