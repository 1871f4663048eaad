package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/records-bot/internal/types"
)

// DefaultSQLitePath is where the sqlite backend keeps its database.
const DefaultSQLitePath = "log/memory.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS post_memory (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id    TEXT NOT NULL,
	run_id     TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// SQLiteStore keeps the post memory in a local SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	runID uuid.UUID
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, runID uuid.UUID) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create post_memory table: %w", err)
	}
	return &SQLiteStore{db: db, runID: runID}, nil
}

// Load returns every stored id in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.PostID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT post_id FROM post_memory ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query post memory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []types.PostID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post memory: %w", err)
		}
		ids = append(ids, types.PostID(id))
	}
	return ids, rows.Err()
}

// Save appends the ids beyond those already stored.
func (s *SQLiteStore) Save(ctx context.Context, ids []types.PostID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_memory`).Scan(&stored); err != nil {
		return fmt.Errorf("failed to count post memory: %w", err)
	}
	if len(ids) < stored {
		return &ShrinkError{Stored: stored, Given: len(ids)}
	}

	for _, id := range ids[stored:] {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_memory (post_id, run_id) VALUES (?, ?)`,
			string(id), s.runID.String(),
		); err != nil {
			return fmt.Errorf("failed to insert post %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
