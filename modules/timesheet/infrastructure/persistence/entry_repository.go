package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/pkg/composables"
)

const (
	upsertTimeEntryQuery = `
		INSERT INTO time_entries (
			tenant_id, worker_id, project_id, tax_id, entry_date, source_line,
			hours_normal, hours_plus50, hours_plus100, hours_night, absence_hours,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (tenant_id, tax_id, entry_date, COALESCE(project_id, 0))
		DO UPDATE SET
			worker_id = EXCLUDED.worker_id,
			source_line = EXCLUDED.source_line,
			hours_normal = EXCLUDED.hours_normal,
			hours_plus50 = EXCLUDED.hours_plus50,
			hours_plus100 = EXCLUDED.hours_plus100,
			hours_night = EXCLUDED.hours_night,
			absence_hours = EXCLUDED.absence_hours,
			updated_at = now()
		RETURNING id`
	upsertCostBreakdownQuery = `
		INSERT INTO cost_breakdowns (
			time_entry_id, status, hourly_rate,
			cost_normal, cost_plus50, cost_plus100, cost_night, cost_total,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (time_entry_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			hourly_rate = EXCLUDED.hourly_rate,
			cost_normal = EXCLUDED.cost_normal,
			cost_plus50 = EXCLUDED.cost_plus50,
			cost_plus100 = EXCLUDED.cost_plus100,
			cost_night = EXCLUDED.cost_night,
			cost_total = EXCLUDED.cost_total,
			updated_at = now()`
)

type TimeEntryRepository struct{}

func NewTimeEntryRepository() entry.Repository {
	return &TimeEntryRepository{}
}

func (r *TimeEntryRepository) UpsertTimeEntry(
	ctx context.Context,
	workerID uint,
	projectID *uint,
	e entry.ParsedEntry,
) (uint, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var pID *int64
	if projectID != nil {
		v := int64(*projectID)
		pID = &v
	}

	hours := e.Hours()
	var id int64
	if err := tx.QueryRow(
		ctx,
		upsertTimeEntryQuery,
		pgTenantID,
		int64(workerID),
		pID,
		e.TaxID().Value(),
		pgDate(e.Date()),
		e.Line(),
		pgNumeric(hours.Normal),
		pgNumeric(hours.Plus50),
		pgNumeric(hours.Plus100),
		pgNumeric(hours.Night),
		pgNumeric(e.Absence()),
	).Scan(&id); err != nil {
		return 0, gerrors.Wrap(err, "failed to upsert time entry")
	}
	return uint(id), nil
}

func (r *TimeEntryRepository) UpsertCostBreakdown(ctx context.Context, entryID uint, c entry.CostBreakdown) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	computed := c.Computed()
	if _, err := tx.Exec(
		ctx,
		upsertCostBreakdownQuery,
		int64(entryID),
		string(c.Status()),
		pgNumericPtr(c.HourlyRate(), computed),
		pgNumericPtr(c.Normal(), computed),
		pgNumericPtr(c.Plus50(), computed),
		pgNumericPtr(c.Plus100(), computed),
		pgNumericPtr(c.Night(), computed),
		pgNumericPtr(c.Total(), computed),
	); err != nil {
		return gerrors.Wrap(err, "failed to upsert cost breakdown")
	}
	return nil
}
