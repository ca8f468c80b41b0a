package excel

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/parsing"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

var (
	ErrNoHeaderRow     = serrors.NewError("IMPORT_NO_HEADER", "the file has no header row", "")
	ErrMissingColumns  = serrors.NewError("IMPORT_MISSING_COLUMNS", "required columns are missing", "tax_id and date must be present")
	ErrUnsupportedFile = serrors.NewError("IMPORT_UNSUPPORTED_FILE", "unsupported file type", "expected .xlsx or .csv")
)

const (
	colTaxID        = "tax_id"
	colDate         = "date"
	colProjectCode  = "project_code"
	colHoursNormal  = "hours_normal"
	colHoursPlus50  = "hours_plus50"
	colHoursPlus100 = "hours_plus100"
	colHoursNight   = "hours_night"
	colAbsenceHours = "absence_hours"
)

// ReadFile dispatches on the extension. The CSV path detects comma and
// semicolon delimiters; everything else goes through excelize.
func ReadFile(name string, r io.Reader) ([]entry.RawRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ReadWorkbook reads the first sheet of an xlsx file into raw rows. Cell
// values are taken raw so serial dates and day-fraction hours survive as
// numbers instead of excelize's display formatting.
func ReadWorkbook(r io.Reader) ([]entry.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeaderRow
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to read sheet")
	}
	return buildRows(rows, rawCell)
}

// ReadCSV reads comma- or semicolon-delimited input. All cells arrive as
// text; the delimiter is sniffed from the header line.
func ReadCSV(r io.Reader) ([]entry.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to read csv")
	}
	content := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to parse csv")
	}
	return buildRows(records, textCell)
}

func detectDelimiter(content string) rune {
	header, _, _ := strings.Cut(content, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// rawCell types an xlsx raw value: float-parseable strings stay numeric so
// ParseDate and ParseHours see serials and fractions, the rest is text.
func rawCell(raw string) parsing.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return parsing.EmptyCell()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return parsing.NumberCell(v)
	}
	return parsing.TextCell(trimmed)
}

func textCell(raw string) parsing.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return parsing.EmptyCell()
	}
	return parsing.TextCell(trimmed)
}

func buildRows(records [][]string, cell func(string) parsing.Cell) ([]entry.RawRow, error) {
	if len(records) == 0 {
		return nil, ErrNoHeaderRow
	}
	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	out := make([]entry.RawRow, 0, len(records)-1)
	for i, record := range records[1:] {
		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return record[idx]
		}
		out = append(out, entry.RawRow{
			Line:         i + 2,
			TaxID:        strings.TrimSpace(get(colTaxID)),
			Date:         cell(get(colDate)),
			ProjectCode:  strings.TrimSpace(get(colProjectCode)),
			HoursNormal:  cell(get(colHoursNormal)),
			HoursPlus50:  cell(get(colHoursPlus50)),
			HoursPlus100: cell(get(colHoursPlus100)),
			HoursNight:   cell(get(colHoursNight)),
			AbsenceHours: cell(get(colAbsenceHours)),
		})
	}
	return out, nil
}

// mapHeader normalizes header names case-insensitively, stripping a trailing
// "(optional)" marker and replacing spaces with underscores.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	if _, ok := columns[colTaxID]; !ok {
		return nil, ErrMissingColumns
	}
	if _, ok := columns[colDate]; !ok {
		return nil, ErrMissingColumns
	}
	return columns, nil
}

func normalizeHeader(h string) string {
	name := strings.ToLower(strings.TrimSpace(h))
	name = strings.TrimSpace(strings.TrimSuffix(name, "(optional)"))
	return strings.ReplaceAll(name, " ", "_")
}
