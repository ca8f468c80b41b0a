package costing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/costing"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
)

func rate(salary, benefits int64, hazardous bool, regime reference.Regime) reference.WageRate {
	return reference.HydrateWageRate(
		1,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		nil,
		decimal.NewFromInt(salary),
		decimal.NewFromInt(benefits),
		hazardous,
		regime,
	)
}

func entryWithHours(h entry.Buckets) entry.ParsedEntry {
	id, _ := taxid.New("529.982.247-25")
	return entry.NewParsedEntry(
		1, id,
		time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		"WO-100", h, decimal.Zero,
	)
}

func assertEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(w), "want %s got %s", w, got)
}

func TestCompute_EmployeeBaseSalary(t *testing.T) {
	e := entryWithHours(entry.Buckets{Normal: decimal.NewFromInt(8)})
	c := costing.Compute(e, rate(5000, 0, false, reference.RegimeEmployee))

	require.True(t, c.Computed())
	assertEq(t, "22.73", c.HourlyRate())
	assertEq(t, "181.82", c.Normal())
	assertEq(t, "181.82", c.Total())
}

func TestCompute_HazardAndBenefits(t *testing.T) {
	// 5000 + 30% hazard + 700 benefits = 7200 monthly; 7200/220 per hour.
	e := entryWithHours(entry.Buckets{Normal: decimal.NewFromInt(8)})
	c := costing.Compute(e, rate(5000, 700, true, reference.RegimeEmployee))

	assertEq(t, "32.73", c.HourlyRate())
	assertEq(t, "261.82", c.Total())
}

func TestCompute_ContractorIgnoresAdditions(t *testing.T) {
	e := entryWithHours(entry.Buckets{Normal: decimal.NewFromInt(8)})
	c := costing.Compute(e, rate(5000, 700, true, reference.RegimeContractor))

	assertEq(t, "22.73", c.HourlyRate())
	assertEq(t, "181.82", c.Total())
}

func TestCompute_BucketMultipliers(t *testing.T) {
	// 2200 monthly gives an exact 10.00 hourly rate.
	e := entryWithHours(entry.Buckets{
		Normal:  decimal.NewFromInt(4),
		Plus50:  decimal.NewFromInt(2),
		Plus100: decimal.NewFromInt(1),
		Night:   decimal.NewFromInt(3),
	})
	c := costing.Compute(e, rate(2200, 0, false, reference.RegimeEmployee))

	assertEq(t, "10", c.HourlyRate())
	assertEq(t, "40", c.Normal())
	assertEq(t, "30", c.Plus50())
	assertEq(t, "20", c.Plus100())
	assertEq(t, "30", c.Night())
	assertEq(t, "120", c.Total())
}

func TestUnavailable(t *testing.T) {
	c := costing.Unavailable()
	assert.False(t, c.Computed())
	assert.Equal(t, entry.CostNoRate, c.Status())
	assert.True(t, c.Total().IsZero())
}
