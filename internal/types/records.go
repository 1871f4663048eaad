// Package types provides type definitions for structured data used throughout the records bot.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Sex identifies the men's or women's record tables.
type Sex string

const (
	SexMen   Sex = "men"
	SexWomen Sex = "women"
)

// Sexes lists every sex in enumeration order.
var Sexes = []Sex{SexMen, SexWomen}

// Category identifies a record category (world, area or championship records).
type Category string

const (
	CategoryWorld         Category = "world"
	CategoryOlympicGames  Category = "olympic_games"
	CategoryAfrican       Category = "african"
	CategoryAsian         Category = "asian"
	CategoryEuropean      Category = "european"
	CategoryNACAC         Category = "nacac"
	CategoryOceanian      Category = "oceanian"
	CategorySouthAmerican Category = "south_american"
)

// Categories lists every record category in enumeration order.
var Categories = []Category{
	CategoryWorld,
	CategoryOlympicGames,
	CategoryAfrican,
	CategoryAsian,
	CategoryEuropean,
	CategoryNACAC,
	CategoryOceanian,
	CategorySouthAmerican,
}

// DisplayName renders the category for humans ("south_american" -> "south american").
func (c Category) DisplayName() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Slug renders the category as it appears in record page URLs ("olympic_games" -> "olympic-games-records").
func (c Category) Slug() string {
	return strings.ReplaceAll(string(c), "_", "-") + "-records"
}

// TableKey addresses one record table in a snapshot.
type TableKey struct {
	Sex      Sex
	Category Category
}

// AllTables returns every (sex, category) pair, sex outer, in enumeration order.
func AllTables() []TableKey {
	keys := make([]TableKey, 0, len(Sexes)*len(Categories))
	for _, s := range Sexes {
		for _, c := range Categories {
			keys = append(keys, TableKey{Sex: s, Category: c})
		}
	}
	return keys
}

// FileName returns the snapshot file name for the table, e.g. "men_world_records.csv".
func (k TableKey) FileName() string {
	return string(k.Sex) + "_" + string(k.Category) + "_records.csv"
}

func (k TableKey) String() string {
	return string(k.Sex) + "/" + string(k.Category)
}

// Record table column names, in file order.
const (
	ColDiscipline = "DISCIPLINE"
	ColPerf       = "PERF"
	ColCompetitor = "COMPETITOR"
	ColDOB        = "DOB"
	ColCountry    = "COUNTRY"
	ColVenue      = "VENUE"
	ColDate       = "DATE"
)

// Columns lists the record table columns in file order.
var Columns = []string{ColDiscipline, ColPerf, ColCompetitor, ColDOB, ColCountry, ColVenue, ColDate}

// Entry holds the non-key fields of a record row.
type Entry struct {
	Perf       string `json:"perf"`
	Competitor string `json:"competitor"`
	DOB        string `json:"dob"`
	Country    string `json:"country"`
	Venue      string `json:"venue"`
	Date       string `json:"date"`
}

// Record is one row of a record table.
type Record struct {
	Discipline string `json:"discipline"`
	Entry
}

// Values returns the row in column order.
func (r Record) Values() []string {
	return []string{r.Discipline, r.Perf, r.Competitor, r.DOB, r.Country, r.Venue, r.Date}
}

// Table is the set of records for one (sex, category).
type Table struct {
	Key     TableKey
	Records []Record
}

// ChangeRecord is the outer-joined before/after pair for a discipline whose rows changed.
// Either side is nil when the join produced no match for it.
type ChangeRecord struct {
	Discipline string   `json:"discipline"`
	Sex        Sex      `json:"sex"`
	Category   Category `json:"category"`
	Before     *Entry   `json:"before,omitempty"`
	After      *Entry   `json:"after,omitempty"`
}

// PostID is the opaque identifier returned by the posting API.
type PostID string
