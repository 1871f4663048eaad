// Package memory persists the identifiers of published posts across runs.
package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/records-bot/internal/types"
)

// Store loads and saves the ordered post memory.
type Store interface {
	Load(ctx context.Context) ([]types.PostID, error)
	Save(ctx context.Context, ids []types.PostID) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config selects and addresses a backend.
type Config struct {
	Backend     string
	Path        string // file and sqlite backends
	DatabaseURL string // postgres backend
}

// Open returns the configured store. runID tags rows written by database backends.
func Open(ctx context.Context, cfg Config, runID uuid.UUID) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path), nil
	case BackendPostgres:
		return ConnectPostgres(ctx, cfg.DatabaseURL, runID)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Path, runID)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}
}

// ShrinkError is returned when a save would drop identifiers already persisted.
type ShrinkError struct {
	Stored int
	Given  int
}

func (e *ShrinkError) Error() string {
	return fmt.Sprintf("post memory is append-only: %d ids stored, %d given", e.Stored, e.Given)
}

func toStrings(ids []types.PostID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
