// Package scrape extracts record tables from rendered record pages and stores them as a snapshot.
package scrape

import "fmt"

// ScrapeError represents a failure to produce one record table.
//
//nolint:revive // scrape.ScrapeError reads naturally at call sites
type ScrapeError struct {
	URL     string
	Message string
	Cause   error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape error for %s: %s", e.URL, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}
