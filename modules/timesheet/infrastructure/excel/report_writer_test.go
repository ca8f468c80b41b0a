package excel_test

import (
	"bytes"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/excel"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
)

func TestWriteReport_RendersOutcomesAndSummary(t *testing.T) {
	outcomes := []entry.Outcome{
		entry.Errored(entry.RowInput{Line: 2, TaxID: "123", Date: "05/03/2024", ProjectCode: "WO-100"},
			entry.ReasonInvalidID, "invalid tax id"),
		entry.Ignored(entry.RowInput{Line: 3}),
	}
	result := services.Result{
		RunID:     uuid.New(),
		Outcomes:  outcomes,
		Summary:   services.Summary{Error: 1},
		TotalCost: decimal.RequireFromString("181.82"),
	}

	buf, err := excel.WriteReport(result)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	// Ignored rows never reach the report; only the header and the error row.
	rows, err := f.GetRows("Outcomes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Line", rows[0][0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "ERROR", rows[1][4])
	assert.Equal(t, "INVALID_ID", rows[1][5])

	total, err := f.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	assert.Equal(t, excel.FormatBRL(decimal.RequireFromString("181.82")), total)
}

func TestFormatBRL_RoundsToCents(t *testing.T) {
	want := money.New(18183, money.BRL).Display()
	assert.Equal(t, want, excel.FormatBRL(decimal.RequireFromString("181.825")))
}
