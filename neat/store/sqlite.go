// Package store archives evolved champions in a SQLite database so that runs can be
// compared and their best genomes reloaded long after the process exits.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/baldhumanity/neat-ff/neat"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one champion record per run and generation.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// RunSummary describes one archived run.
type RunSummary struct {
	RunID       string
	Generations int
	BestFitness float64
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the tables. Calling it twice is a no-op.
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

// SaveChampion stores ind as the champion of the given generation, replacing any earlier record.
func (s *SQLiteStore) SaveChampion(ctx context.Context, runID string, generation int, ind *neat.Individual) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if ind == nil || ind.Genome == nil {
		return errors.New("champion has no genome")
	}

	payload, err := EncodeIndividual(ind)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO champions (run_id, generation, genome_id, fitness, schema_version, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			genome_id = excluded.genome_id,
			fitness = excluded.fitness,
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, runID, generation, ind.Genome.ID, ind.Fitness, CurrentSchemaVersion, payload)
	if err != nil {
		return fmt.Errorf("save champion %s/%d: %w", runID, generation, err)
	}
	return nil
}

// Champion returns the champion recorded for one generation of a run.
func (s *SQLiteStore) Champion(ctx context.Context, runID string, generation int) (*neat.Individual, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM champions WHERE run_id = ? AND generation = ?`,
		runID, generation).Scan(&payload)
	return decodeRow(payload, err, runID)
}

// BestChampion returns the fittest champion archived for a run.
// Ties go to the earliest generation.
func (s *SQLiteStore) BestChampion(ctx context.Context, runID string) (*neat.Individual, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `
		SELECT payload FROM champions
		WHERE run_id = ?
		ORDER BY fitness DESC, generation ASC
		LIMIT 1
	`, runID).Scan(&payload)
	return decodeRow(payload, err, runID)
}

// FitnessHistory returns the archived champion fitness of a run ordered by generation.
func (s *SQLiteStore) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT fitness FROM champions WHERE run_id = ? ORDER BY generation ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var f float64
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		history = append(history, f)
	}
	return history, rows.Err()
}

// Runs lists every archived run with its generation count and best fitness,
// best run first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, COUNT(*), MAX(fitness) FROM champions
		GROUP BY run_id
		ORDER BY MAX(fitness) DESC, run_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Generations, &r.BestFitness); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
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
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func decodeRow(payload []byte, err error, runID string) (*neat.Individual, bool, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	ind, err := DecodeIndividual(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode champion of run %s: %w", runID, err)
	}
	return ind, true, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS champions (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			genome_id INTEGER NOT NULL,
			fitness REAL NOT NULL,
			schema_version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}

// Reporter archives the best individual of every generation.
// Archive failures are logged and do not stop the run.
type Reporter struct {
	Store  *SQLiteStore
	RunID  string
	Logger *slog.Logger
}

// EndGeneration implements neat.Reporter.
func (r Reporter) EndGeneration(stats neat.GenerationStats) {
	if stats.Best == nil {
		return
	}
	if err := r.Store.SaveChampion(context.Background(), r.RunID, stats.Generation, stats.Best); err != nil {
		logger := r.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("failed to archive champion",
			slog.String("run_id", r.RunID),
			slog.Int("generation", stats.Generation),
			slog.Any("error", err))
	}
}
