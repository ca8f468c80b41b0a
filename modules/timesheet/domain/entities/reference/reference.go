package reference

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
)

// Regime determines how the monthly compensation base is assembled. Contract
// workers are paid the bare salary; employed workers additionally accrue
// benefits and the hazard premium.
type Regime string

const (
	RegimeEmployee   Regime = "clt"
	RegimeContractor Regime = "contractor"
)

type Worker struct {
	id       uint
	tenantID uuid.UUID
	taxID    taxid.TaxID
	name     string
}

func HydrateWorker(id uint, tenantID uuid.UUID, taxID taxid.TaxID, name string) Worker {
	return Worker{
		id:       id,
		tenantID: tenantID,
		taxID:    taxID,
		name:     strings.TrimSpace(name),
	}
}

func (w Worker) ID() uint            { return w.id }
func (w Worker) TenantID() uuid.UUID { return w.tenantID }
func (w Worker) TaxID() taxid.TaxID  { return w.taxID }
func (w Worker) Name() string        { return w.name }

type Project struct {
	id       uint
	tenantID uuid.UUID
	code     string
	name     string
}

func HydrateProject(id uint, tenantID uuid.UUID, code, name string) Project {
	return Project{
		id:       id,
		tenantID: tenantID,
		code:     NormalizeProjectCode(code),
		name:     strings.TrimSpace(name),
	}
}

func (p Project) ID() uint            { return p.id }
func (p Project) TenantID() uuid.UUID { return p.tenantID }
func (p Project) Code() string        { return p.code }
func (p Project) Name() string        { return p.name }

func NormalizeProjectCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// WageRate is a worker's compensation terms valid over a date interval.
// effectiveTo is nil for the open-ended current rate. Intervals within one
// worker's history never overlap.
type WageRate struct {
	workerID      uint
	effectiveFrom time.Time
	effectiveTo   *time.Time
	baseSalary    decimal.Decimal
	benefits      decimal.Decimal
	hazardous     bool
	regime        Regime
}

func HydrateWageRate(
	workerID uint,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
	baseSalary decimal.Decimal,
	benefits decimal.Decimal,
	hazardous bool,
	regime Regime,
) WageRate {
	return WageRate{
		workerID:      workerID,
		effectiveFrom: effectiveFrom,
		effectiveTo:   effectiveTo,
		baseSalary:    baseSalary,
		benefits:      benefits,
		hazardous:     hazardous,
		regime:        regime,
	}
}

func (r WageRate) WorkerID() uint           { return r.workerID }
func (r WageRate) EffectiveFrom() time.Time { return r.effectiveFrom }
func (r WageRate) EffectiveTo() *time.Time  { return r.effectiveTo }
func (r WageRate) BaseSalary() decimal.Decimal {
	return r.baseSalary
}
func (r WageRate) Benefits() decimal.Decimal { return r.benefits }
func (r WageRate) Hazardous() bool           { return r.hazardous }
func (r WageRate) Regime() Regime            { return r.regime }

// Covers reports whether the rate is effective on the given date.
func (r WageRate) Covers(date time.Time) bool {
	if date.Before(r.effectiveFrom) {
		return false
	}
	return r.effectiveTo == nil || !date.After(*r.effectiveTo)
}
