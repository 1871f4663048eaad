package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/records-bot/internal/types"
)

// Store is a directory holding one CSV file per (sex, category) record table.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the file path of the table addressed by key.
func (s *Store) Path(key types.TableKey) string {
	return filepath.Join(s.Dir, key.FileName())
}

// Load reads the table addressed by key.
// A missing file yields *MissingSnapshotError; a missing column yields *MalformedTableError.
func (s *Store) Load(key types.TableKey) (*types.Table, error) {
	path := s.Path(key)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSnapshotError{Path: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := readRecords(path, f)
	if err != nil {
		return nil, err
	}
	return &types.Table{Key: key, Records: records}, nil
}

// Write stores the table, replacing any existing file.
func (s *Store) Write(table *types.Table) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", s.Dir, err)
	}

	path := s.Path(table.Key)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(types.Columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, r := range table.Records {
		if err := w.Write(r.Values()); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func readRecords(path string, r io.Reader) ([]types.Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedTableError{Path: path, Message: "empty file"}
		}
		return nil, &MalformedTableError{Path: path, Message: "unreadable header", Cause: err}
	}

	index, err := columnIndex(path, header)
	if err != nil {
		return nil, err
	}

	var records []types.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedTableError{Path: path, Message: fmt.Sprintf("bad row at line %d", line), Cause: err}
		}
		records = append(records, types.Record{
			Discipline: row[index[types.ColDiscipline]],
			Entry: types.Entry{
				Perf:       row[index[types.ColPerf]],
				Competitor: row[index[types.ColCompetitor]],
				DOB:        row[index[types.ColDOB]],
				Country:    row[index[types.ColCountry]],
				Venue:      row[index[types.ColVenue]],
				Date:       row[index[types.ColDate]],
			},
		})
	}
	return records, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(path string, header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(types.Columns))
	for _, col := range types.Columns {
		i, ok := positions[col]
		if !ok {
			return nil, &MalformedTableError{Path: path, Column: col}
		}
		index[col] = i
	}
	return index, nil
}
