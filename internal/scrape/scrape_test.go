package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/records-bot/internal/snapshot"
	"github.com/jonathan/records-bot/internal/types"
)

const recordsPage = `
<html><body><div id="__next">
<table class="Table_table__2zsdR RecordsTable_table__3X8lL">
  <thead><tr><th>Discipline</th></tr></thead>
  <tbody>
    <tr>
      <td> 100 Metres </td><td>+0.9</td><td> 9.58 </td><td></td>
      <td>Usain BOLT</td><td>21 AUG 1986</td><td>JAM</td>
      <td>Olympiastadion, Berlin (GER)</td><td>16 AUG 2009</td>
    </tr>
    <tr>
      <td>Mile</td><td></td><td>3:47.32 h*</td><td></td>
      <td>Jakob INGEBRIGTSEN</td><td>19 SEP 2000</td><td>NOR</td>
      <td>Stockholm (i) (SWE)</td><td>17 FEB 2023</td>
    </tr>
    <tr>
      <td>Marathon</td><td></td><td>2:11:53 Wo</td><td></td>
      <td>Tigst ASSEFA</td><td>03 DEC 1996</td><td>ETH</td>
      <td>Berlin</td><td>24 SEP 2023</td>
    </tr>
    <tr><td colspan="9">footnote row</td></tr>
  </tbody>
</table>
</div></body></html>`

func TestExtractRecords(t *testing.T) {
	records, err := ExtractRecords(recordsPage, "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, types.Record{
		Discipline: "100 Metres",
		Entry: types.Entry{
			Perf:       "9.58",
			Competitor: "Usain BOLT",
			DOB:        "21 AUG 1986",
			Country:    "JAM",
			Venue:      "Olympiastadion, Berlin (GER)",
			Date:       "16 AUG 2009",
		},
	}, records[0])
	assert.Equal(t, "3:47.32", records[1].Perf)
	assert.Equal(t, "Stockholm  (SWE)", records[1].Venue)
	assert.Equal(t, "2:11:53", records[2].Perf)
}

func TestExtractRecords_NoTable(t *testing.T) {
	_, err := ExtractRecords("<html><body><p>Access denied</p></body></html>", "")
	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Contains(t, err.Error(), "records table not found")
}

// fakeRenderer serves recordsPage and records every request.
type fakeRenderer struct {
	calls []string
	fail  string
}

func (f *fakeRenderer) Render(_ context.Context, url, clickXPath string) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s|%t", url, clickXPath != ""))
	if f.fail != "" && strings.HasSuffix(url, f.fail) {
		return "", errors.New("page crashed")
	}
	return recordsPage, nil
}

func TestScraper_Run(t *testing.T) {
	dir := t.TempDir()
	renderer := &fakeRenderer{}
	store := snapshot.NewStore(dir)

	require.NoError(t, New(renderer, store, Options{BaseURL: "https://example.test/records/"}, nil).Run(context.Background()))

	require.Len(t, renderer.calls, 16)
	assert.Equal(t, "https://example.test/records/world-records|false", renderer.calls[0])
	assert.Equal(t, "https://example.test/records/world-records|true", renderer.calls[1])
	assert.Equal(t, "https://example.test/records/olympic-games-records|false", renderer.calls[2])
	assert.Equal(t, "https://example.test/records/south-american-records|true", renderer.calls[15])

	for _, key := range types.AllTables() {
		table, err := store.Load(key)
		require.NoError(t, err, key.String())
		assert.Len(t, table.Records, 3)
	}
}

func TestScraper_RenderFailureStops(t *testing.T) {
	renderer := &fakeRenderer{fail: "asian-records"}
	err := New(renderer, snapshot.NewStore(t.TempDir()), Options{}, nil).Run(context.Background())

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, DefaultBaseURL+"asian-records", scrapeErr.URL)
	assert.Len(t, renderer.calls, 7)
}

func TestScraper_URL(t *testing.T) {
	s := New(&fakeRenderer{}, snapshot.NewStore(t.TempDir()), DefaultOptions(), nil)
	assert.Equal(t, "https://worldathletics.org/records/by-category/olympic-games-records", s.URL(types.CategoryOlympicGames))
	assert.Equal(t, "https://worldathletics.org/records/by-category/nacac-records", s.URL(types.CategoryNACAC))
}
