// Package main provides the entry point for the athletics records bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "records_bot",
	Short: "Athletics records bot",
	Long: `Records bot scrapes the World Athletics record tables, compares them with the previous snapshot
and posts an announcement for every broken record.

Configuration can be loaded from a JSON5 file using --config. Command-line flags override config file values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
	beforeDir  string
	afterDir   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (JSON5, values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at DEBUG level")
	rootCmd.PersistentFlags().StringVar(&beforeDir, "before", "", "Previous snapshot directory")
	rootCmd.PersistentFlags().StringVar(&afterDir, "after", "", "Current snapshot directory")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
