package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "modernc.org/sqlite"
)

// Store owns the sqlite handle shared by the repos in this package.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(ctx context.Context) error {
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
	// one writer keeps transactions from tripping SQLITE_BUSY
	db.SetMaxOpenConns(1)

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

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKeyType struct{}

var txKey = txKeyType{}

func (s *Store) conn(ctx context.Context) (querier, error) {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok && tx != nil {
		return tx, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		PRAGMA foreign_keys = ON;
		CREATE TABLE IF NOT EXISTS evaluation_runs (
			run_id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			config TEXT NOT NULL,
			schedule TEXT NOT NULL,
			vary_seed INTEGER NOT NULL,
			trials INTEGER NOT NULL,
			success_rate REAL NOT NULL,
			avg_steps_success REAL,
			failures INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS evaluation_trials (
			run_id TEXT NOT NULL REFERENCES evaluation_runs (run_id) ON DELETE CASCADE,
			trial_index INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			steps INTEGER NOT NULL,
			plan_length INTEGER NOT NULL,
			events_fired TEXT NOT NULL,
			PRIMARY KEY (run_id, trial_index)
		);
		CREATE TABLE IF NOT EXISTS world_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			type TEXT NOT NULL,
			tick INTEGER NOT NULL,
			occurred_at INTEGER NOT NULL,
			payload TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_world_events_session ON world_events (session_id, id);
	`)
	return err
}
