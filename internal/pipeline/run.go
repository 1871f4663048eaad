// Package pipeline provides the high-level orchestration of a records run:
// diff, compose, publish, remember and archive.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jonathan/records-bot/internal/archive"
	"github.com/jonathan/records-bot/internal/memory"
	"github.com/jonathan/records-bot/internal/types"
)

// Differ produces the change records between two snapshots.
type Differ interface {
	Run() ([]types.ChangeRecord, error)
}

// Composer renders change records as announcements.
type Composer interface {
	Messages(changes []types.ChangeRecord) []string
}

// Poster publishes one announcement.
type Poster interface {
	Post(ctx context.Context, message, imagePath string) (types.PostID, error)
}

// Archiver retires the current snapshot.
type Archiver interface {
	Sync(ctx context.Context) (archive.Result, error)
}

// Deps are the collaborators of a run. Poster, Memory and Archiver may be nil for dry runs.
type Deps struct {
	Differ   Differ
	Composer Composer
	Poster   Poster
	Memory   memory.Store
	Archiver Archiver
	Logger   *slog.Logger
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	RunID     uuid.UUID
	ImagePath string
	DryRun    bool // compose only: nothing is posted, saved or archived
	NoArchive bool
}

// Result describes what a run did.
type Result struct {
	RunID         uuid.UUID
	Changes       []types.ChangeRecord
	Announcements []string
	Posted        []types.PostID
	Archived      bool
}

// Run executes one pipeline pass.
//
// Any diff failure aborts before anything is posted. The first post failure stops publishing:
// ids obtained so far are still saved to memory, archival is skipped so the next run sees the
// same snapshots, and a *PublishError is returned.
func Run(ctx context.Context, deps Deps, opts RunOptions) (*Result, error) {
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", opts.RunID.String())

	res := &Result{RunID: opts.RunID}

	changes, err := deps.Differ.Run()
	if err != nil {
		return res, fmt.Errorf("failed to diff snapshots: %w", err)
	}
	res.Changes = changes
	logger.Info("data loaded", "changes", len(changes))

	res.Announcements = deps.Composer.Messages(changes)
	logger.Info("messages generated", "count", len(res.Announcements))

	if opts.DryRun {
		logger.Info("dry run: skipping publish and archive")
		return res, nil
	}
	if deps.Poster == nil || deps.Memory == nil {
		return res, errors.New("pipeline requires a poster and a memory store unless running dry")
	}

	remembered, err := deps.Memory.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load post memory: %w", err)
	}
	logger.Debug("post memory loaded", "entries", len(remembered))

	publishErr := publish(ctx, deps.Poster, res, opts.ImagePath, logger)

	if len(res.Posted) > 0 {
		if err := deps.Memory.Save(ctx, append(remembered, res.Posted...)); err != nil {
			return res, errors.Join(publishErr, fmt.Errorf("failed to save post memory: %w", err))
		}
		logger.Info("post memory saved", "entries", len(remembered)+len(res.Posted))
	}

	if publishErr != nil {
		logger.Error("publishing failed, snapshots not archived", "err", publishErr)
		return res, publishErr
	}

	if opts.NoArchive || deps.Archiver == nil {
		logger.Info("archival skipped")
		return res, nil
	}
	if _, err := deps.Archiver.Sync(ctx); err != nil {
		return res, fmt.Errorf("failed to archive snapshots: %w", err)
	}
	res.Archived = true
	logger.Info("folders synced")

	return res, nil
}

func publish(ctx context.Context, poster Poster, res *Result, imagePath string, logger *slog.Logger) error {
	total := len(res.Announcements)
	for i, msg := range res.Announcements {
		id, err := poster.Post(ctx, msg, imagePath)
		if err != nil {
			return &PublishError{Index: i, Total: total, Cause: err}
		}
		res.Posted = append(res.Posted, id)
		logger.Debug("announcement posted", "index", i+1, "total", total, "id", id)
	}
	return nil
}
