package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/compose"
)

var composeCommand = &cobra.Command{
	Use:   "compose",
	Short: "Print the announcements the next run would post",
	RunE:  runComposeCmd,
}

func init() {
	rootCmd.AddCommand(composeCommand)
}

func runComposeCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	changes, err := a.differ().Run()
	if err != nil {
		return err
	}
	a.printer.PrintAnnouncements(a.composer().Messages(changes))
	return nil
}

func (a *app) composer() *compose.Composer {
	if a.cfg.IOCFlags {
		return compose.New(compose.NewCountryFlags(compose.WithIOCFallback()))
	}
	return compose.New(compose.NewCountryFlags())
}
