package excel

import (
	"bytes"
	"fmt"

	"github.com/Rhymond/go-money"
	gerrors "github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/timesheet/modules/timesheet/services"
)

const (
	outcomesSheet = "Outcomes"
	summarySheet  = "Summary"
)

var reportHeader = []string{"Line", "Tax ID", "Date", "Project", "Status", "Reason", "Message"}

// WriteReport renders the per-row outcomes and a summary sheet into an xlsx
// workbook. Monetary values are formatted as BRL.
func WriteReport(result services.Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), outcomesSheet); err != nil {
		return nil, gerrors.Wrap(err, "failed to rename sheet")
	}
	if err := writeOutcomes(f, services.GenerateReport(result.Outcomes)); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, gerrors.Wrap(err, "failed to add summary sheet")
	}
	if err := writeSummary(f, result); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to serialize report")
	}
	return buf, nil
}

func writeOutcomes(f *excelize.File, rows []services.ReportRow) error {
	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(outcomesSheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []interface{}{
			row.Line, row.TaxID, row.Date, row.ProjectCode,
			row.Status, row.ReasonCode, row.Message,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(outcomesSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, result services.Result) error {
	lines := [][2]interface{}{
		{"Run", result.RunID.String()},
		{"OK rows", result.Summary.OK},
		{"Warnings", result.Summary.Warning},
		{"Errors", result.Summary.Error},
		{"Blocks created", result.Blocks.Created},
		{"Blocks extended", result.Blocks.Extended},
		{"Blocks deleted", result.Blocks.Deleted},
		{"Total cost", FormatBRL(result.TotalCost)},
	}
	for i, line := range lines {
		keyCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(summarySheet, keyCell, line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, valueCell, line[1]); err != nil {
			return err
		}
	}
	return nil
}

// FormatBRL renders a two-decimal amount using the currency's display rules.
func FormatBRL(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}
