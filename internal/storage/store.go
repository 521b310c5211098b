package storage

import (
	"context"

	"panmixia/internal/model"
)

// Store persists optimization runs and their per-generation artifacts.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveHistory(ctx context.Context, runID string, history [][]float64) error
	GetHistory(ctx context.Context, runID string) ([][]float64, bool, error)
	SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveBestGenome(ctx context.Context, best model.BestGenomeRecord) error
	GetBestGenome(ctx context.Context, runID string) (model.BestGenomeRecord, bool, error)
}
