package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// DefaultLogPath is where the run log is appended.
const DefaultLogPath = "log/log.log"

// LogOptions configures NewLogger.
type LogOptions struct {
	Path    string    // append-only log file; empty disables the file sink
	Verbose bool      // DEBUG instead of INFO
	Console io.Writer // colored console sink; nil disables it
}

// NewLogger builds the process-wide logger. The returned closer releases the log file.
func NewLogger(opts LogOptions) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
		}
		closer = f
		handlers = append(handlers, tint.NewHandler(f, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    true,
		}))
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	case 1:
		return slog.New(handlers[0]), closer, nil
	default:
		return slog.New(fanout(handlers)), closer, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
