//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"panmixia/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, run.ID, run.CreatedAtUTC, run.SchemaVersion, run.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return model.RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at_utc DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		run, err := DecodeRun(payload)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveHistory(ctx context.Context, runID string, history [][]float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeHistory(history)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO history (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetHistory(ctx context.Context, runID string) ([][]float64, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM history WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	history, err := DecodeHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode history %s: %w", runID, err)
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeDiagnostics(diagnostics)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO diagnostics (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM diagnostics WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	diagnostics, err := DecodeDiagnostics(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode diagnostics %s: %w", runID, err)
	}
	return diagnostics, true, nil
}

func (s *SQLiteStore) SaveBestGenome(ctx context.Context, best model.BestGenomeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeBestGenome(best)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO best_genomes (run_id, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, best.RunID, best.SchemaVersion, best.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetBestGenome(ctx context.Context, runID string) (model.BestGenomeRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.BestGenomeRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM best_genomes WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BestGenomeRecord{}, false, nil
		}
		return model.BestGenomeRecord{}, false, err
	}

	best, err := DecodeBestGenome(payload)
	if err != nil {
		return model.BestGenomeRecord{}, false, fmt.Errorf("decode best genome %s: %w", runID, err)
	}
	return best, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS history (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS best_genomes (
			run_id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

// DefaultStoreKind reports the backend used when none is requested.
func DefaultStoreKind() string {
	return "sqlite"
}
