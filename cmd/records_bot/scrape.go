package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/records-bot/internal/fetch"
	"github.com/jonathan/records-bot/internal/scrape"
	"github.com/jonathan/records-bot/internal/snapshot"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every record table into the current snapshot directory",
	Long: `Renders each record category page in headless Chrome, women's table first then men's,
and writes one CSV per (sex, category) into the after directory.

Requires Chrome/Chromium to be installed on the system.`,
	RunE: runScrapeCmd,
}

var scrapeHeadful bool

func init() {
	scrapeCommand.Flags().BoolVar(&scrapeHeadful, "headful", false, "Show the browser window")
	rootCmd.AddCommand(scrapeCommand)
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if cmd.Flags().Changed("headful") {
		a.cfg.Headful = scrapeHeadful
	}
	return a.scrape(cmd.Context())
}

// scrape fills the after directory with a fresh snapshot.
func (a *app) scrape(ctx context.Context) error {
	opts := fetch.DefaultBrowserOptions()
	opts.Headless = !a.cfg.Headful

	browser, err := fetch.NewBrowser(ctx, opts, a.logger)
	if err != nil {
		return err
	}
	defer browser.Close()

	scraper := scrape.New(browser, snapshot.NewStore(a.cfg.AfterDir), scrape.Options{
		BaseURL:        a.cfg.BaseURL,
		MenButtonXPath: a.cfg.MenButtonXPath,
		TableSelector:  a.cfg.TableSelector,
	}, a.logger)

	a.logger.Info("scraping record tables", "dir", a.cfg.AfterDir)
	return scraper.Run(ctx)
}
