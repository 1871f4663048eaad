package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/records-bot/internal/schemas"
	"github.com/jonathan/records-bot/internal/types"
)

// DefaultFilePath is where the file backend keeps the post memory.
const DefaultFilePath = "log/memory.json"

// FileStore keeps the post memory as a JSON array of strings.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{path: path}
}

// SchemaError reports memory content that does not match the memory schema.
type SchemaError struct {
	Path   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid post memory %s: %s", e.Path, strings.Join(e.Errors, "; "))
}

// Load reads the memory. A missing file is an empty memory.
func (s *FileStore) Load(_ context.Context) ([]types.PostID, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read post memory %s: %w", s.path, err)
	}

	if err := schemas.ValidatePostMemory(data); err != nil {
		var validationErr *schemas.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, fmt.Errorf("failed to parse post memory %s: %w", s.path, err)
		}
		schemaErr := &SchemaError{Path: s.path}
		for _, fe := range validationErr.Errors {
			schemaErr.Errors = append(schemaErr.Errors, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
		return nil, schemaErr
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode post memory %s: %w", s.path, err)
	}
	ids := make([]types.PostID, len(raw))
	for i, id := range raw {
		ids[i] = types.PostID(id)
	}
	return ids, nil
}

// Save rewrites the whole memory through a temp file and rename.
func (s *FileStore) Save(_ context.Context, ids []types.PostID) error {
	data, err := json.MarshalIndent(toStrings(ids), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode post memory: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create memory directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp memory file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write post memory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close post memory: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace post memory %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
