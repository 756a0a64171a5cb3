// Package sqlite provides a sink that upserts records into a SQLite
// database keyed by (resource, record key). The upsert is what makes
// at-least-once delivery safe: re-delivered records overwrite
// themselves instead of duplicating.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.Sink = (*Sink)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	resource   TEXT NOT NULL,
	record_key TEXT NOT NULL,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (resource, record_key)
);
`

// Sink stores records in SQLite with last-write-wins merge semantics.
type Sink struct {
	db *sql.DB
}

// NewSink opens (or creates) the record database at the given data
// directory. If dataDir is empty, defaults to ~/.tributary/data.
func NewSink(dataDir string) (*Sink, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tributary", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite",
		filepath.Join(dataDir, "records.db")+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Sink{db: db}, nil
}

// Write upserts one record by its identity key.
func (s *Sink) Write(ctx context.Context, resource domain.ResourceType, key string, rec domain.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (resource, record_key, payload, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (resource, record_key) DO UPDATE SET
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		string(resource), key, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Count returns the number of stored records for a resource.
func (s *Sink) Count(ctx context.Context, resource domain.ResourceType) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE resource = ?`, string(resource),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}
