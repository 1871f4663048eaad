package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/records-bot/internal/types"
)

var menWorld = types.TableKey{Sex: types.SexMen, Category: types.CategoryWorld}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStore_Path(t *testing.T) {
	s := NewStore("data/data_before")
	assert.Equal(t, filepath.Join("data/data_before", "men_world_records.csv"), s.Path(menWorld))
	assert.Equal(t, filepath.Join("data/data_before", "women_south_american_records.csv"),
		s.Path(types.TableKey{Sex: types.SexWomen, Category: types.CategorySouthAmerican}))
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "men_world_records.csv",
		"DISCIPLINE,PERF,COMPETITOR,DOB,COUNTRY,VENUE,DATE\n"+
			"100m,9.58,Usain BOLT,21 AUG 1986,JAM,\"Olympiastadion, Berlin\",16 AUG 2009\n"+
			"200m,19.19,Usain BOLT,21 AUG 1986,JAM,Berlin,20 AUG 2009\n")

	table, err := NewStore(dir).Load(menWorld)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, menWorld, table.Key)
	assert.Equal(t, "100m", table.Records[0].Discipline)
	assert.Equal(t, "9.58", table.Records[0].Perf)
	assert.Equal(t, "Olympiastadion, Berlin", table.Records[0].Venue)
	assert.Equal(t, "20 AUG 2009", table.Records[1].Date)
}

func TestStore_Load_ReorderedColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "men_world_records.csv",
		"PERF,DISCIPLINE,DATE,VENUE,COUNTRY,DOB,COMPETITOR,EXTRA\n"+
			"9.58,100m,16 AUG 2009,Berlin,JAM,21 AUG 1986,Usain BOLT,x\n")

	table, err := NewStore(dir).Load(menWorld)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, types.Record{
		Discipline: "100m",
		Entry: types.Entry{
			Perf: "9.58", Competitor: "Usain BOLT", DOB: "21 AUG 1986",
			Country: "JAM", Venue: "Berlin", Date: "16 AUG 2009",
		},
	}, table.Records[0])
}

func TestStore_Load_MissingFile(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load(menWorld)
	require.Error(t, err)

	var missing *MissingSnapshotError
	require.ErrorAs(t, err, &missing)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "men_world_records.csv")
}

func TestStore_Load_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "men_world_records.csv",
		"DISCIPLINE,PERF,COMPETITOR,DOB,VENUE,DATE\n100m,9.58,A,x,X,2008-01-01\n")

	_, err := NewStore(dir).Load(menWorld)
	require.Error(t, err)

	var malformed *MalformedTableError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, types.ColCountry, malformed.Column)
	assert.Contains(t, err.Error(), `missing column "COUNTRY"`)
}

func TestStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "men_world_records.csv", "")

	_, err := NewStore(dir).Load(menWorld)
	var malformed *MalformedTableError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "empty file")
}

func TestStore_Load_RaggedRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "men_world_records.csv",
		"DISCIPLINE,PERF,COMPETITOR,DOB,COUNTRY,VENUE,DATE\n100m,9.58\n")

	_, err := NewStore(dir).Load(menWorld)
	var malformed *MalformedTableError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "line 2")
}

func TestStore_WriteThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewStore(dir)
	table := &types.Table{
		Key: menWorld,
		Records: []types.Record{
			{Discipline: "Marathon", Entry: types.Entry{Perf: "2:00:35", Competitor: "Kelvin KIPTUM", Country: "KEN", Venue: "Chicago, IL (USA)", Date: "08 OCT 2023"}},
		},
	}

	require.NoError(t, store.Write(table))

	loaded, err := store.Load(menWorld)
	require.NoError(t, err)
	assert.Equal(t, table.Records, loaded.Records)
}
