package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/records-bot/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS post_memory (
	seq        BIGSERIAL PRIMARY KEY,
	post_id    TEXT NOT NULL,
	run_id     UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps the post memory in a PostgreSQL table, one row per post.
type PostgresStore struct {
	pool  *pgxpool.Pool
	runID uuid.UUID
}

// ConnectPostgres opens a pool, verifies it and ensures the table exists.
func ConnectPostgres(ctx context.Context, databaseURL string, runID uuid.UUID) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres memory backend requires a database URL")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create post_memory table: %w", err)
	}

	return &PostgresStore{pool: pool, runID: runID}, nil
}

// Load returns every stored id in insertion order.
func (s *PostgresStore) Load(ctx context.Context) ([]types.PostID, error) {
	rows, err := s.pool.Query(ctx, `SELECT post_id FROM post_memory ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query post memory: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan post memory: %w", err)
	}
	out := make([]types.PostID, len(ids))
	for i, id := range ids {
		out[i] = types.PostID(id)
	}
	return out, nil
}

// Save appends the ids beyond those already stored.
func (s *PostgresStore) Save(ctx context.Context, ids []types.PostID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stored int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM post_memory`).Scan(&stored); err != nil {
		return fmt.Errorf("failed to count post memory: %w", err)
	}
	if len(ids) < stored {
		return &ShrinkError{Stored: stored, Given: len(ids)}
	}

	for _, id := range ids[stored:] {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_memory (post_id, run_id) VALUES ($1, $2)`,
			string(id), s.runID,
		); err != nil {
			return fmt.Errorf("failed to insert post %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post memory: %w", err)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
