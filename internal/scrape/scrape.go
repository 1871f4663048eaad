package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonathan/records-bot/internal/fetch"
	"github.com/jonathan/records-bot/internal/snapshot"
	"github.com/jonathan/records-bot/internal/types"
)

const (
	// DefaultBaseURL prefixes every category slug.
	DefaultBaseURL = "https://worldathletics.org/records/by-category/"
	// DefaultMenButtonXPath selects the men's tab; the women's table is shown by default.
	DefaultMenButtonXPath = `//*[@id="__next"]/div[3]/div/div/div[2]/ul/li[2]/button`
)

// Options configures where and how tables are scraped.
type Options struct {
	BaseURL        string
	MenButtonXPath string
	TableSelector  string
}

// DefaultOptions returns the World Athletics settings.
func DefaultOptions() Options {
	return Options{
		BaseURL:        DefaultBaseURL,
		MenButtonXPath: DefaultMenButtonXPath,
		TableSelector:  DefaultTableSelector,
	}
}

// Scraper renders every category page and writes the tables into a snapshot store.
type Scraper struct {
	renderer fetch.Renderer
	store    *snapshot.Store
	opts     Options
	logger   *slog.Logger
}

// New creates a Scraper.
func New(renderer fetch.Renderer, store *snapshot.Store, opts Options, logger *slog.Logger) *Scraper {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.MenButtonXPath == "" {
		opts.MenButtonXPath = defaults.MenButtonXPath
	}
	if opts.TableSelector == "" {
		opts.TableSelector = defaults.TableSelector
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{renderer: renderer, store: store, opts: opts, logger: logger}
}

// URL returns the page showing the category's records.
func (s *Scraper) URL(category types.Category) string {
	return s.opts.BaseURL + category.Slug()
}

// Run scrapes every category, women first then men, one page at a time.
func (s *Scraper) Run(ctx context.Context) error {
	for _, category := range types.Categories {
		s.logger.Info("processing category", "category", category.Slug())
		for _, sex := range []types.Sex{types.SexWomen, types.SexMen} {
			if err := s.ScrapeTable(ctx, types.TableKey{Sex: sex, Category: category}); err != nil {
				return err
			}
		}
		s.logger.Info("category scraped", "category", category.Slug())
	}
	return nil
}

// ScrapeTable renders, extracts and stores a single table.
func (s *Scraper) ScrapeTable(ctx context.Context, key types.TableKey) error {
	url := s.URL(key.Category)
	click := ""
	if key.Sex == types.SexMen {
		click = s.opts.MenButtonXPath
	}

	html, err := s.renderer.Render(ctx, url, click)
	if err != nil {
		return &ScrapeError{URL: url, Message: fmt.Sprintf("failed to render %s table", key), Cause: err}
	}

	records, err := ExtractRecords(html, s.opts.TableSelector)
	if err != nil {
		var scrapeErr *ScrapeError
		if errors.As(err, &scrapeErr) {
			scrapeErr.URL = url
		}
		return err
	}

	if err := s.store.Write(&types.Table{Key: key, Records: records}); err != nil {
		return fmt.Errorf("failed to store %s table: %w", key, err)
	}
	s.logger.Debug("table written", "table", key.String(), "records", len(records), "path", s.store.Path(key))
	return nil
}
