package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/config"
	"github.com/jonathan/records-bot/internal/memory"
	"github.com/jonathan/records-bot/internal/pipeline"
	"github.com/jonathan/records-bot/internal/publish"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Diff the snapshots, post every announcement and archive the current snapshot",
	Long: `Compares the previous and current snapshots, posts one announcement per record change,
remembers the post ids and moves the current snapshot into the previous slot.

If a post fails, publishing stops, the ids already posted are remembered and the snapshots are
left in place so the next run sees the same changes.

Posting credentials are read from API_KEY, API_KEY_SECRET, ACCESS_TOKEN and ACCESS_TOKEN_SECRET.`,
	RunE: runPipelineCmd,
}

var (
	runDryRun    bool
	runNoArchive bool
	runImage     string
)

func init() {
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Compose announcements without posting, saving or archiving")
	runCommand.Flags().BoolVar(&runNoArchive, "no-archive", false, "Leave both snapshot directories untouched")
	runCommand.Flags().StringVar(&runImage, "image", "", "Image attached to every post")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if cmd.Flags().Changed("image") {
		a.cfg.ImagePath = runImage
	}

	res, err := a.run(cmd.Context(), pipeline.RunOptions{
		DryRun:    runDryRun,
		NoArchive: runNoArchive,
	})
	if res != nil {
		if runDryRun {
			a.printer.PrintAnnouncements(res.Announcements)
		}
		a.printer.PrintRunSummary(res.RunID.String(), len(res.Changes), len(res.Posted), res.Archived, runDryRun)
	}
	return err
}

// run wires the configured collaborators into one pipeline pass.
func (a *app) run(ctx context.Context, opts pipeline.RunOptions) (*pipeline.Result, error) {
	opts.RunID = uuid.New()
	opts.ImagePath = a.cfg.ImagePath
	logger := a.logger.With("run_id", opts.RunID.String())

	deps := pipeline.Deps{
		Differ:   a.differ(),
		Composer: a.composer(),
		Archiver: a.archivist(),
		Logger:   a.logger,
	}

	if !opts.DryRun {
		creds := config.CredentialsFromEnv()
		if err := creds.Validate(); err != nil {
			logger.Warn("posting credentials incomplete, posts will be rejected", "err", err)
		}
		deps.Poster = publish.NewClient(creds, &publish.Options{
			APIBaseURL:    a.cfg.APIBaseURL,
			UploadBaseURL: a.cfg.UploadBaseURL,
		}, logger)

		store, err := memory.Open(ctx, memory.Config{
			Backend:     a.cfg.MemoryBackend,
			Path:        a.cfg.MemoryPath,
			DatabaseURL: a.cfg.DatabaseURL,
		}, opts.RunID)
		if err != nil {
			return nil, fmt.Errorf("failed to open post memory: %w", err)
		}
		defer func() { _ = store.Close() }()
		deps.Memory = store
	}

	return pipeline.Run(ctx, deps, opts)
}
