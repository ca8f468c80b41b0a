package entry

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/parsing"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
)

// RawRow is one input line exactly as read from the source file, before any
// typing. Line numbers are 1-based and preserved through to the report.
type RawRow struct {
	Line         int
	TaxID        string
	Date         parsing.Cell
	ProjectCode  string
	HoursNormal  parsing.Cell
	HoursPlus50  parsing.Cell
	HoursPlus100 parsing.Cell
	HoursNight   parsing.Cell
	AbsenceHours parsing.Cell
}

// Buckets holds the four premium-class hour quantities of a daily entry.
type Buckets struct {
	Normal  decimal.Decimal
	Plus50  decimal.Decimal
	Plus100 decimal.Decimal
	Night   decimal.Decimal
}

func (b Buckets) Total() decimal.Decimal {
	return b.Normal.Add(b.Plus50).Add(b.Plus100).Add(b.Night)
}

func (b Buckets) IsZero() bool {
	return b.Total().IsZero()
}

// ParsedEntry is the typed, normalized form of a row. Immutable once built.
type ParsedEntry struct {
	line        int
	taxID       taxid.TaxID
	date        time.Time
	projectCode string
	hours       Buckets
	absence     decimal.Decimal
}

func NewParsedEntry(
	line int,
	taxID taxid.TaxID,
	date time.Time,
	projectCode string,
	hours Buckets,
	absence decimal.Decimal,
) ParsedEntry {
	return ParsedEntry{
		line:        line,
		taxID:       taxID,
		date:        date,
		projectCode: projectCode,
		hours:       hours,
		absence:     absence,
	}
}

func (e ParsedEntry) Line() int                { return e.line }
func (e ParsedEntry) TaxID() taxid.TaxID       { return e.taxID }
func (e ParsedEntry) Date() time.Time          { return e.date }
func (e ParsedEntry) ProjectCode() string      { return e.projectCode }
func (e ParsedEntry) Hours() Buckets           { return e.hours }
func (e ParsedEntry) Absence() decimal.Decimal { return e.absence }
