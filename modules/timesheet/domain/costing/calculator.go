package costing

import (
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
)

// StandardMonthlyHours divides the monthly compensation base into an hourly
// rate.
const StandardMonthlyHours = 220

var (
	standardMonthlyHours = decimal.NewFromInt(StandardMonthlyHours)
	hazardPremium        = decimal.NewFromFloat(0.30)

	plus50Multiplier  = decimal.NewFromFloat(1.5)
	plus100Multiplier = decimal.NewFromFloat(2.0)
	// Night hours carry no premium in the source payroll data.
	nightMultiplier = decimal.NewFromFloat(1.0)
)

// Compute derives the monetary breakdown for an entry under the given wage
// rate. Bucket subtotals are taken from the unrounded hourly rate and rounded
// to two decimals individually; the displayed hourly rate is rounded
// separately.
func Compute(e entry.ParsedEntry, rate reference.WageRate) entry.CostBreakdown {
	monthly := monthlyBase(rate)
	hourly := monthly.Div(standardMonthlyHours)

	hours := e.Hours()
	normal := hours.Normal.Mul(hourly).Round(2)
	plus50 := hours.Plus50.Mul(hourly).Mul(plus50Multiplier).Round(2)
	plus100 := hours.Plus100.Mul(hourly).Mul(plus100Multiplier).Round(2)
	night := hours.Night.Mul(hourly).Mul(nightMultiplier).Round(2)
	total := normal.Add(plus50).Add(plus100).Add(night).Round(2)

	return entry.NewCostBreakdown(hourly.Round(2), normal, plus50, plus100, night, total)
}

// Unavailable records that hours exist but no rate covered the date; the
// entry is still persisted for downstream reporting.
func Unavailable() entry.CostBreakdown {
	return entry.UnavailableCost()
}

func monthlyBase(rate reference.WageRate) decimal.Decimal {
	base := rate.BaseSalary()
	if rate.Regime() == reference.RegimeContractor {
		return base
	}
	if rate.Hazardous() {
		base = base.Add(rate.BaseSalary().Mul(hazardPremium))
	}
	return base.Add(rate.Benefits())
}
