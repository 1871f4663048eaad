// Package snapshot reads and writes record table snapshots stored as CSV files.
package snapshot

import (
	"fmt"
	"io/fs"
)

// MissingSnapshotError is returned when a required record table file does not exist.
type MissingSnapshotError struct {
	Path  string
	Cause error
}

func (e *MissingSnapshotError) Error() string {
	return fmt.Sprintf("missing snapshot file %s", e.Path)
}

func (e *MissingSnapshotError) Unwrap() error {
	if e.Cause == nil {
		return fs.ErrNotExist
	}
	return e.Cause
}

// MalformedTableError is returned when a record table cannot be parsed or lacks a required column.
type MalformedTableError struct {
	Path    string
	Column  string
	Message string
	Cause   error
}

func (e *MalformedTableError) Error() string {
	msg := e.Message
	if e.Column != "" {
		msg = fmt.Sprintf("missing column %q", e.Column)
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed table %s: %s: %v", e.Path, msg, e.Cause)
	}
	return fmt.Sprintf("malformed table %s: %s", e.Path, msg)
}

func (e *MalformedTableError) Unwrap() error {
	return e.Cause
}
