package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/archive"
)

var archiveCommand = &cobra.Command{
	Use:   "archive",
	Short: "Move the current snapshot into the previous snapshot directory",
	RunE:  runArchiveCmd,
}

func init() {
	rootCmd.AddCommand(archiveCommand)
}

func runArchiveCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.archivist().Sync(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d, moved %d, failed %d\n", res.Removed, res.Moved, res.Failed)
	return nil
}

func (a *app) archivist() *archive.Archivist {
	return archive.New(a.cfg.BeforeDir, a.cfg.AfterDir, a.cfg.ReservedName, a.logger)
}
