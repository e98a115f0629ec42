package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shannon/internal/entropy"
	"shannon/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Run is one recorded entropy computation. The raw input is never stored;
// InputSHA256 identifies it.
type Run struct {
	ID          string
	Source      string // "stdin", "table", "watch:<path>"
	InputSHA256 string
	Length      int
	Distinct    int
	Entropy     float64
	CreatedAt   time.Time
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryStore persists runs in SQLite.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	now    func() time.Time
}

// Open initializes the SQLite database at the given path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*HistoryStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &HistoryStore{db: db, dbPath: path, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Get(logging.CategoryStore).Debug("history store opened", zap.String("path", path))
	return s, nil
}

// initialize creates the required tables.
func (s *HistoryStore) initialize() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS entropy_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		input_sha256 TEXT NOT NULL,
		length INTEGER NOT NULL,
		distinct_symbols INTEGER NOT NULL,
		entropy REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON entropy_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_input ON entropy_runs(input_sha256);
	`

	if _, err := s.db.Exec(runsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Path returns the database location.
func (s *HistoryStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record stores the result of analysing input and returns the new run.
func (s *HistoryStore) Record(ctx context.Context, source, input string, a *entropy.Analysis) (Run, error) {
	if a == nil {
		return Run{}, fmt.Errorf("record run: nil analysis")
	}

	sum := sha256.Sum256([]byte(input))
	run := Run{
		ID:          uuid.NewString(),
		Source:      source,
		InputSHA256: hex.EncodeToString(sum[:]),
		Length:      a.Length,
		Distinct:    a.Distinct,
		Entropy:     a.Entropy,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entropy_runs (id, source, input_sha256, length, distinct_symbols, entropy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.InputSHA256, run.Length, run.Distinct, run.Entropy,
		run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	logging.Get(logging.CategoryStore).Debug("recorded run",
		zap.String("id", run.ID),
		zap.String("source", source),
		zap.Float64("entropy", run.Entropy))
	return run, nil
}

// Recent returns up to limit runs, newest first. limit <= 0 returns all runs.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, source, input_sha256, length, distinct_symbols, entropy, created_at
		FROM entropy_runs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.InputSHA256, &r.Length, &r.Distinct, &r.Entropy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
