package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/parsing"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
)

// Validator classifies parsed rows against a frozen reference snapshot. Pure:
// no I/O, no shared mutable state, safe to run concurrently across rows.
type Validator struct {
	snapshot *reference.Snapshot
}

func NewValidator(snapshot *reference.Snapshot) *Validator {
	return &Validator{snapshot: snapshot}
}

type parsedHours struct {
	value decimal.Decimal
	err   error
}

func parseBucket(c parsing.Cell) parsedHours {
	v, err := parsing.ParseHours(c)
	return parsedHours{value: v, err: err}
}

// Validate runs the ordered rule chain over one raw row. The first failing
// rule decides the outcome; rows carrying no information are dropped
// silently.
func (v *Validator) Validate(row entry.RawRow) entry.Outcome {
	in := entry.RowInput{
		Line:        row.Line,
		TaxID:       strings.TrimSpace(row.TaxID),
		Date:        rawDateText(row.Date),
		ProjectCode: strings.TrimSpace(row.ProjectCode),
	}

	normal := parseBucket(row.HoursNormal)
	plus50 := parseBucket(row.HoursPlus50)
	plus100 := parseBucket(row.HoursPlus100)
	night := parseBucket(row.HoursNight)
	absence := parseBucket(row.AbsenceHours)
	buckets := []parsedHours{normal, plus50, plus100, night}

	// An all-zero row without a project carries no information.
	if in.ProjectCode == "" && allZero(buckets) {
		return entry.Ignored(in)
	}

	id, err := taxid.New(in.TaxID)
	if err != nil {
		return entry.Errored(in, entry.ReasonInvalidID, err.Error())
	}

	worker, ok := v.snapshot.WorkerByTaxID(id)
	if !ok {
		return entry.Errored(in, entry.ReasonIDNotFound,
			fmt.Sprintf("no worker registered for tax id %s", id.Format()))
	}

	date, err := parsing.ParseDate(row.Date)
	if err != nil {
		return entry.Errored(in, entry.ReasonInvalidDate, err.Error())
	}

	if in.ProjectCode == "" {
		// Hours without a project are importable, but stay unlinked until
		// the project is supplied; no wage-rate check applies.
		e := entry.NewParsedEntry(row.Line, id, date, "", hourValues(buckets), absence.value)
		return entry.Warned(in, entry.ReasonProjectPending,
			"hours reported without a project code", e, worker.ID(), 0)
	}

	project, ok := v.snapshot.ProjectByCode(in.ProjectCode)
	if !ok {
		return entry.Errored(in, entry.ReasonProjectNotFound,
			fmt.Sprintf("no project registered for code %q", reference.NormalizeProjectCode(in.ProjectCode)))
	}

	if err := firstError(append(buckets, absence)); err != nil {
		return entry.Errored(in, entry.ReasonInvalidHours, err.Error())
	}

	e := entry.NewParsedEntry(row.Line, id, date, project.Code(), hourValues(buckets), absence.value)

	rate, ok := v.snapshot.EffectiveRate(worker.ID(), date)
	if !ok {
		return entry.Warned(in, entry.ReasonNoEffectiveRate,
			fmt.Sprintf("no wage rate in effect on %s", date.Format("2006-01-02")),
			e, worker.ID(), project.ID())
	}

	return entry.Accepted(in, e, worker.ID(), project.ID(), rate)
}

func allZero(buckets []parsedHours) bool {
	for _, b := range buckets {
		if b.err != nil || !b.value.IsZero() {
			return false
		}
	}
	return true
}

func firstError(buckets []parsedHours) error {
	for _, b := range buckets {
		if b.err != nil {
			return b.err
		}
	}
	return nil
}

func hourValues(buckets []parsedHours) entry.Buckets {
	return entry.Buckets{
		Normal:  buckets[0].value,
		Plus50:  buckets[1].value,
		Plus100: buckets[2].value,
		Night:   buckets[3].value,
	}
}

func rawDateText(c parsing.Cell) string {
	if d, err := parsing.ParseDate(c); err == nil {
		return d.Format("2006-01-02")
	}
	if c.Kind() == parsing.CellText {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
