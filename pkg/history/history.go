// Package history records the outcome of top-level resolution requests in a
// local SQLite database, giving operators a trail of what was resolved, how
// long it took, and which requests hit cycles.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Outcome classifies how a resolution request ended.
const (
	OutcomeResolved    = "resolved"
	OutcomeCycle       = "cycle"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)

// Record is one resolution request.
type Record struct {
	ID        int64         `json:"id"`
	Target    string        `json:"target"`
	Outcome   string        `json:"outcome"`
	NodeCount int           `json:"nodeCount"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Store persists resolution records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	store := &Store{db: db}
	if err := store.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring resolutions table: %w", err)
	}
	return store, nil
}

func (s *Store) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		outcome TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resolutions_target ON resolutions(target);
	CREATE INDEX IF NOT EXISTS idx_resolutions_created_at ON resolutions(created_at DESC);
	`
	_, err := s.db.Exec(query)
	return err
}

// Add appends a record. CreatedAt defaults to now when zero.
func (s *Store) Add(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (target, outcome, node_count, duration_ns, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Target, rec.Outcome, rec.NodeCount, rec.Duration.Nanoseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, outcome, node_count, duration_ns, created_at
		 FROM resolutions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationNs int64
		if err := rows.Scan(&rec.ID, &rec.Target, &rec.Outcome, &rec.NodeCount, &durationNs, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationNs)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
