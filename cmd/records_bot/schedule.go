package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/pipeline"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Scrape and run on a cron schedule until interrupted",
	Long: `Runs scrape followed by run on the configured cron schedule (default "0 6 * * *").
A job still running when the next one is due causes that tick to be skipped.`,
	RunE: runScheduleCmd,
}

var (
	scheduleSpec string
	scheduleNow  bool
)

func init() {
	scheduleCommand.Flags().StringVar(&scheduleSpec, "cron", "", "Cron spec (overrides config)")
	scheduleCommand.Flags().BoolVar(&scheduleNow, "now", false, "Also run once immediately")
	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if cmd.Flags().Changed("cron") {
		a.cfg.Schedule = scheduleSpec
	}

	ctx := cmd.Context()
	logger := cronLogger{logger: a.logger}
	job := exclusiveJob(logger, func() { a.scheduledRun(ctx) })

	scheduler := cron.New(cron.WithLogger(logger))
	if _, err := scheduler.AddJob(a.cfg.Schedule, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", a.cfg.Schedule, err)
	}

	a.logger.Info("scheduler started", "schedule", a.cfg.Schedule)
	scheduler.Start()
	if scheduleNow {
		// Same wrapped job, so a tick during this run is skipped.
		job.Run()
	}

	<-ctx.Done()
	a.logger.Info("stopping scheduler")
	<-scheduler.Stop().Done()
	return nil
}

// scheduledRun scrapes a fresh snapshot and publishes the changes. Errors are logged; the
// scheduler keeps going.
func (a *app) scheduledRun(ctx context.Context) {
	if err := a.scrape(ctx); err != nil {
		a.logger.Error("scheduled scrape failed", "err", err)
		return
	}
	res, err := a.run(ctx, pipeline.RunOptions{})
	if err != nil {
		a.logger.Error("scheduled run failed", "err", err)
		return
	}
	a.logger.Info("scheduled run finished", "run_id", res.RunID.String(), "posted", len(res.Posted))
}

// exclusiveJob wraps fn so that at most one invocation runs at a time; overlapping calls are
// skipped. Panics are recovered and logged.
func exclusiveJob(logger cron.Logger, fn func()) cron.Job {
	return cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(fn))
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"err", err}, keysAndValues...)...)
}
