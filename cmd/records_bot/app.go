package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/config"
	"github.com/jonathan/records-bot/internal/observability"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	printer *observability.Printer
	closer  io.Closer
}

func (a *app) Close() error {
	return a.closer.Close()
}

// loadConfig reads the optional config file, applies flag overrides, fills defaults and validates.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("before") {
		cfg.BeforeDir = beforeDir
	}
	if flags.Changed("after") {
		cfg.AfterDir = afterDir
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp loads the configuration and builds the logger for a command.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closer, err := observability.NewLogger(observability.LogOptions{
		Path:    cfg.LogPath,
		Verbose: cfg.Verbose,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &app{
		cfg:     cfg,
		logger:  logger.With("command", cmd.Name()),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		closer:  closer,
	}, nil
}
