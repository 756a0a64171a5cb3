// Package sqlite provides a SQLite-backed checkpoint store so watermarks
// survive across runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	resource   TEXT NOT NULL,
	parent_id  TEXT NOT NULL,
	watermark  TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (resource, parent_id)
);
`

// Store persists watermarks in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the checkpoint database at the given data
// directory. If dataDir is empty, defaults to ~/.tributary/data.
func NewStore(dataDir string) (*Store, error) {
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

	dbPath := filepath.Join(dataDir, "checkpoints.db")

	// WAL keeps readers from blocking the single writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Get returns the watermark for a parent, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, resource domain.ResourceType, parentID string) (string, error) {
	var wm string
	err := s.db.QueryRowContext(ctx,
		`SELECT watermark FROM checkpoints WHERE resource = ? AND parent_id = ?`,
		string(resource), parentID,
	).Scan(&wm)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query checkpoint: %w", err)
	}
	return wm, nil
}

// Set stores the watermark for a parent, replacing any previous value.
func (s *Store) Set(ctx context.Context, resource domain.ResourceType, parentID, watermark string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (resource, parent_id, watermark, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (resource, parent_id) DO UPDATE SET
		   watermark = excluded.watermark,
		   updated_at = excluded.updated_at`,
		string(resource), parentID, watermark, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
