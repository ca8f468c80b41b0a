package entry

import "github.com/shopspring/decimal"

type CostStatus string

const (
	// CostComputed means an effective wage rate was found and applied.
	CostComputed CostStatus = "computed"
	// CostNoRate means no rate covered the entry date; hours are still
	// recorded and the monetary fields persist as nulls.
	CostNoRate CostStatus = "no_applicable_rate"
)

// CostBreakdown is the derived monetary cost of one accepted row. All
// amounts carry two decimal places.
type CostBreakdown struct {
	status     CostStatus
	hourlyRate decimal.Decimal
	normal     decimal.Decimal
	plus50     decimal.Decimal
	plus100    decimal.Decimal
	night      decimal.Decimal
	total      decimal.Decimal
}

func NewCostBreakdown(hourlyRate, normal, plus50, plus100, night, total decimal.Decimal) CostBreakdown {
	return CostBreakdown{
		status:     CostComputed,
		hourlyRate: hourlyRate,
		normal:     normal,
		plus50:     plus50,
		plus100:    plus100,
		night:      night,
		total:      total,
	}
}

func UnavailableCost() CostBreakdown {
	return CostBreakdown{status: CostNoRate}
}

func (c CostBreakdown) Status() CostStatus          { return c.status }
func (c CostBreakdown) Computed() bool              { return c.status == CostComputed }
func (c CostBreakdown) HourlyRate() decimal.Decimal { return c.hourlyRate }
func (c CostBreakdown) Normal() decimal.Decimal     { return c.normal }
func (c CostBreakdown) Plus50() decimal.Decimal     { return c.plus50 }
func (c CostBreakdown) Plus100() decimal.Decimal    { return c.plus100 }
func (c CostBreakdown) Night() decimal.Decimal      { return c.night }
func (c CostBreakdown) Total() decimal.Decimal      { return c.total }
