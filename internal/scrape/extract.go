package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/records-bot/internal/types"
)

// DefaultTableSelector matches the records table (its class names carry a build hash suffix).
const DefaultTableSelector = `table[class*="RecordsTable"]`

// Cell positions of the records table.
const (
	cellDiscipline = 0
	cellPerf       = 2
	cellCompetitor = 4
	cellDOB        = 5
	cellCountry    = 6
	cellVenue      = 7
	cellDate       = 8
	minCells       = 9
)

// perfNoise lists annotations the site appends to performances.
var perfNoise = []string{"*", "Mx", "Wo", "h"}

// ExtractRecords parses the records table out of a rendered page.
func ExtractRecords(html, tableSelector string) ([]types.Record, error) {
	if tableSelector == "" {
		tableSelector = DefaultTableSelector
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ScrapeError{Message: "failed to parse HTML", Cause: err}
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, &ScrapeError{Message: "records table not found"}
	}

	var records []types.Record
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}
		text := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}
		records = append(records, types.Record{
			Discipline: text(cellDiscipline),
			Entry: types.Entry{
				Perf:       cleanPerf(text(cellPerf)),
				Competitor: text(cellCompetitor),
				DOB:        text(cellDOB),
				Country:    text(cellCountry),
				Venue:      strings.ReplaceAll(text(cellVenue), "(i)", ""),
				Date:       text(cellDate),
			},
		})
	})
	return records, nil
}

func cleanPerf(perf string) string {
	for _, noise := range perfNoise {
		perf = strings.ReplaceAll(perf, noise, "")
	}
	return strings.TrimSpace(perf)
}
