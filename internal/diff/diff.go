// Package diff compares two record snapshots and reports the disciplines whose rows changed.
package diff

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jonathan/records-bot/internal/snapshot"
	"github.com/jonathan/records-bot/internal/types"
)

// TableLoader loads one record table from a snapshot.
type TableLoader interface {
	Load(key types.TableKey) (*types.Table, error)
}

// Differ compares a "before" snapshot against an "after" snapshot.
type Differ struct {
	before TableLoader
	after  TableLoader
	tables []types.TableKey
	logger *slog.Logger
}

// New creates a Differ over every (sex, category) table.
func New(before, after TableLoader, logger *slog.Logger) *Differ {
	if logger == nil {
		logger = slog.Default()
	}
	return &Differ{
		before: before,
		after:  after,
		tables: types.AllTables(),
		logger: logger,
	}
}

// NewFromDirs creates a Differ over two snapshot directories.
func NewFromDirs(beforeDir, afterDir string, logger *slog.Logger) *Differ {
	return New(snapshot.NewStore(beforeDir), snapshot.NewStore(afterDir), logger)
}

// Run loads both snapshots table by table and returns every change, in table enumeration order.
// Any load failure aborts the whole run.
func (d *Differ) Run() ([]types.ChangeRecord, error) {
	var changes []types.ChangeRecord
	for _, key := range d.tables {
		before, err := d.before.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous %s table: %w", key, err)
		}
		after, err := d.after.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load current %s table: %w", key, err)
		}

		tableChanges := CompareTables(before, after)
		if len(tableChanges) > 0 {
			d.logger.Debug("table changed", "table", key.String(), "changes", len(tableChanges))
		}
		changes = append(changes, tableChanges...)
	}
	d.logger.Info("snapshots compared", "tables", len(d.tables), "changes", len(changes))
	return changes, nil
}

// CompareTables diffs two versions of the same table.
// Iteration is driven by the disciplines of before, so disciplines that only exist in after are not reported.
func CompareTables(before, after *types.Table) []types.ChangeRecord {
	var changes []types.ChangeRecord
	for _, discipline := range disciplines(before.Records) {
		beforeRows := rowsFor(before.Records, discipline)
		afterRows := rowsFor(after.Records, discipline)
		if slices.Equal(beforeRows, afterRows) {
			continue
		}
		changes = append(changes, outerJoin(discipline, beforeRows, afterRows, before.Key)...)
	}
	return changes
}

// disciplines returns the distinct disciplines in first-appearance order.
func disciplines(records []types.Record) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if !seen[r.Discipline] {
			seen[r.Discipline] = true
			out = append(out, r.Discipline)
		}
	}
	return out
}

func rowsFor(records []types.Record, discipline string) []types.Record {
	var rows []types.Record
	for _, r := range records {
		if r.Discipline == discipline {
			rows = append(rows, r)
		}
	}
	return rows
}

// outerJoin pairs every before row with every after row sharing the discipline.
// A side with no rows contributes a single nil entry.
func outerJoin(discipline string, beforeRows, afterRows []types.Record, key types.TableKey) []types.ChangeRecord {
	left := entries(beforeRows)
	right := entries(afterRows)

	out := make([]types.ChangeRecord, 0, len(left)*len(right))
	for _, b := range left {
		for _, a := range right {
			out = append(out, types.ChangeRecord{
				Discipline: discipline,
				Sex:        key.Sex,
				Category:   key.Category,
				Before:     b,
				After:      a,
			})
		}
	}
	return out
}

func entries(rows []types.Record) []*types.Entry {
	if len(rows) == 0 {
		return []*types.Entry{nil}
	}
	out := make([]*types.Entry, len(rows))
	for i := range rows {
		e := rows[i].Entry
		out[i] = &e
	}
	return out
}
