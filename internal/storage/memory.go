package storage

import (
	"context"
	"sort"
	"sync"

	"panmixia/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	history     map[string][][]float64
	diagnostics map[string][]model.GenerationDiagnostics
	bestGenomes map[string]model.BestGenomeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.history = make(map[string][][]float64)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	s.bestGenomes = make(map[string]model.BestGenomeRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC != runs[j].CreatedAtUTC {
			return runs[i].CreatedAtUTC > runs[j].CreatedAtUTC
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, history [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([][]float64, len(history))
	for i, row := range history {
		stored[i] = append([]float64(nil), row...)
	}
	s.history[runID] = stored
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([][]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	return history, ok, nil
}

func (s *MemoryStore) SaveDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics[runID] = append([]model.GenerationDiagnostics(nil), diagnostics...)
	return nil
}

func (s *MemoryStore) GetDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	return diagnostics, ok, nil
}

func (s *MemoryStore) SaveBestGenome(_ context.Context, best model.BestGenomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bestGenomes[best.RunID] = best
	return nil
}

func (s *MemoryStore) GetBestGenome(_ context.Context, runID string) (model.BestGenomeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best, ok := s.bestGenomes[runID]
	return best, ok, nil
}
