package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/diff"
)

var diffCommand = &cobra.Command{
	Use:   "diff",
	Short: "Show the record changes between the previous and current snapshots",
	RunE:  runDiffCmd,
}

func init() {
	rootCmd.AddCommand(diffCommand)
}

func runDiffCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	changes, err := a.differ().Run()
	if err != nil {
		return err
	}
	a.printer.PrintChanges(changes)
	return nil
}

func (a *app) differ() *diff.Differ {
	return diff.NewFromDirs(a.cfg.BeforeDir, a.cfg.AfterDir, a.logger)
}
