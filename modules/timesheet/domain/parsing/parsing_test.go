package parsing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/parsing"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		cell parsing.Cell
	}{
		{"serial number", parsing.NumberCell(45292)},
		{"serial with time part", parsing.NumberCell(45292.75)},
		{"native date", parsing.TimeCell(time.Date(2024, time.January, 1, 13, 30, 0, 0, time.Local))},
		{"dd/mm/yyyy", parsing.TextCell("01/01/2024")},
		{"iso", parsing.TextCell("2024-01-01")},
		{"padded text", parsing.TextCell("  2024-01-01 ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsing.ParseDate(tc.cell)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s", got)
		})
	}
}

func TestParseDate_Errors(t *testing.T) {
	cases := []struct {
		name string
		cell parsing.Cell
	}{
		{"empty", parsing.EmptyCell()},
		{"garbage text", parsing.TextCell("next tuesday")},
		{"us format", parsing.TextCell("01/31/2024")},
		{"zero serial", parsing.NumberCell(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsing.ParseDate(tc.cell)
			require.Error(t, err)
			var pe *parsing.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "date", pe.Field)
		})
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		name string
		cell parsing.Cell
		want string
	}{
		{"empty cell", parsing.EmptyCell(), "0"},
		{"blank text", parsing.TextCell("   "), "0"},
		{"day fraction", parsing.NumberCell(0.5), "12"},
		{"third of a day", parsing.NumberCell(1.0 / 3.0), "8"},
		{"plain number", parsing.NumberCell(8), "8"},
		{"clock", parsing.TextCell("07:30"), "7.5"},
		{"clock past noon", parsing.TextCell("12:45"), "12.75"},
		{"comma decimal", parsing.TextCell("1,75"), "1.75"},
		{"dot decimal", parsing.TextCell("2.25"), "2.25"},
		{"native time", parsing.TimeCell(time.Date(0, 1, 1, 9, 15, 0, 0, time.UTC)), "9.25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsing.ParseHours(tc.cell)
			require.NoError(t, err)
			want, err := decimal.NewFromString(tc.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestParseHours_Errors(t *testing.T) {
	cases := []struct {
		name string
		cell parsing.Cell
	}{
		{"negative number", parsing.NumberCell(-1)},
		{"negative text", parsing.TextCell("-2")},
		{"minutes overflow", parsing.TextCell("07:60")},
		{"triple clock", parsing.TextCell("1:2:3")},
		{"not a number", parsing.TextCell("eight")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsing.ParseHours(tc.cell)
			require.Error(t, err)
			var pe *parsing.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "hours", pe.Field)
		})
	}
}
