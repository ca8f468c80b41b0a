package parsing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind distinguishes how a value arrived from the source file. Numeric
// cells follow spreadsheet conventions (serial dates, day-fraction hours);
// text cells follow the documented text formats.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellTime
)

type Cell struct {
	kind   CellKind
	text   string
	number float64
	t      time.Time
}

func EmptyCell() Cell           { return Cell{kind: CellEmpty} }
func TextCell(s string) Cell    { return Cell{kind: CellText, text: s} }
func NumberCell(v float64) Cell { return Cell{kind: CellNumber, number: v} }
func TimeCell(t time.Time) Cell { return Cell{kind: CellTime, t: t} }
func (c Cell) Kind() CellKind   { return c.kind }
func (c Cell) Text() string     { return c.text }

// IsEmpty treats whitespace-only text as empty too.
func (c Cell) IsEmpty() bool {
	return c.kind == CellEmpty || (c.kind == CellText && strings.TrimSpace(c.text) == "")
}

// ParseError is a field-level failure returned as a value. It always
// escalates the owning row to an error classification, never aborts a batch.
type ParseError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q: %s", e.Field, e.Raw, e.Reason)
}

// serialEpoch is the spreadsheet day-zero (1899-12-30).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseDate accepts a spreadsheet serial number, a native date value,
// DD/MM/YYYY or YYYY-MM-DD. The result is truncated to a calendar date in UTC.
func ParseDate(c Cell) (time.Time, error) {
	switch c.kind {
	case CellTime:
		return time.Date(c.t.Year(), c.t.Month(), c.t.Day(), 0, 0, 0, 0, time.UTC), nil
	case CellNumber:
		if c.number < 1 {
			return time.Time{}, &ParseError{Field: "date", Raw: fmt.Sprint(c.number), Reason: "serial out of range"}
		}
		return serialEpoch.AddDate(0, 0, int(c.number)), nil
	case CellText:
		raw := strings.TrimSpace(c.text)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, &ParseError{Field: "date", Raw: raw, Reason: "unrecognized format"}
	default:
		return time.Time{}, &ParseError{Field: "date", Raw: "", Reason: "empty"}
	}
}

// ParseHours accepts a spreadsheet time fraction (0 <= v < 1 becomes v*24
// hours), HH:MM text, or a decimal quantity with comma or dot separator.
// Empty input is zero hours, not an error. Results carry two decimal places.
func ParseHours(c Cell) (decimal.Decimal, error) {
	switch c.kind {
	case CellEmpty:
		return decimal.Zero, nil
	case CellTime:
		h := float64(c.t.Hour()) + float64(c.t.Minute())/60
		return decimal.NewFromFloat(h).Round(2), nil
	case CellNumber:
		v := c.number
		if v < 0 {
			return decimal.Zero, &ParseError{Field: "hours", Raw: fmt.Sprint(v), Reason: "negative"}
		}
		if v < 1 {
			v *= 24
		}
		return decimal.NewFromFloat(v).Round(2), nil
	default:
		raw := strings.TrimSpace(c.text)
		if raw == "" {
			return decimal.Zero, nil
		}
		if strings.Contains(raw, ":") {
			return parseClockHours(raw)
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "not a number"}
		}
		if d.IsNegative() {
			return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "negative"}
		}
		return d.Round(2), nil
	}
}

func parseClockHours(raw string) (decimal.Decimal, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "expected HH:MM"}
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 {
		return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "invalid hour part"}
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 {
		return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "invalid minute part"}
	}
	if minutes >= 60 {
		return decimal.Zero, &ParseError{Field: "hours", Raw: raw, Reason: "minutes out of range"}
	}
	d := decimal.NewFromInt(int64(hours)).
		Add(decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)))
	return d.Round(2), nil
}
