package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/memory"
	"github.com/jonathan/records-bot/internal/publish"
)

var memoryCommand = &cobra.Command{
	Use:   "memory",
	Short: "List the most recent posted announcements",
	RunE:  runMemoryCmd,
}

func init() {
	rootCmd.AddCommand(memoryCommand)
}

func runMemoryCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	store, err := memory.Open(ctx, memory.Config{
		Backend:     a.cfg.MemoryBackend,
		Path:        a.cfg.MemoryPath,
		DatabaseURL: a.cfg.DatabaseURL,
	}, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to open post memory: %w", err)
	}
	defer func() { _ = store.Close() }()

	ids, err := store.Load(ctx)
	if err != nil {
		return err
	}
	a.printer.PrintPostMemory(ids, publish.StatusURL)
	return nil
}
