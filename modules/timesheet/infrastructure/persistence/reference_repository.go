package persistence

import (
	"context"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
	"github.com/iota-uz/timesheet/pkg/composables"
)

const (
	workersQuery = `
		SELECT id, tenant_id, tax_id, name
		FROM workers
		WHERE tenant_id = $1
		ORDER BY id`
	projectsQuery = `
		SELECT id, tenant_id, code, name
		FROM projects
		WHERE tenant_id = $1
		ORDER BY id`
	wageRatesQuery = `
		SELECT wr.worker_id, wr.effective_from, wr.effective_to,
		       wr.base_salary, wr.benefits, wr.hazardous, wr.regime
		FROM wage_rates wr
		JOIN workers w ON w.id = wr.worker_id
		WHERE w.tenant_id = $1
		ORDER BY wr.worker_id, wr.effective_from`
)

type ReferenceRepository struct{}

func NewReferenceRepository() reference.Repository {
	return &ReferenceRepository{}
}

// LoadSnapshot reads workers, projects and wage-rate history into the frozen
// lookup view used for the rest of the run. Workers whose stored tax id no
// longer validates are skipped rather than failing the whole load.
func (r *ReferenceRepository) LoadSnapshot(ctx context.Context) (*reference.Snapshot, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	workers := make([]reference.Worker, 0)
	rows, err := tx.Query(ctx, workersQuery, pgTenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to load workers")
	}
	for rows.Next() {
		var (
			id       int64
			tenantID pgtype.UUID
			rawTaxID string
			name     string
		)
		if err := rows.Scan(&id, &tenantID, &rawTaxID, &name); err != nil {
			rows.Close()
			return nil, err
		}
		workerTaxID, err := taxid.New(rawTaxID)
		if err != nil {
			continue
		}
		workers = append(workers, reference.HydrateWorker(uint(id), tenantUUID, workerTaxID, name))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	projects := make([]reference.Project, 0)
	rows, err = tx.Query(ctx, projectsQuery, pgTenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to load projects")
	}
	for rows.Next() {
		var (
			id       int64
			tenantID pgtype.UUID
			code     string
			name     string
		)
		if err := rows.Scan(&id, &tenantID, &code, &name); err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, reference.HydrateProject(uint(id), tenantUUID, code, name))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rates := make([]reference.WageRate, 0)
	rows, err = tx.Query(ctx, wageRatesQuery, pgTenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to load wage rates")
	}
	for rows.Next() {
		var (
			workerID      int64
			effectiveFrom pgtype.Date
			effectiveTo   pgtype.Date
			baseSalary    pgtype.Numeric
			benefits      pgtype.Numeric
			hazardous     bool
			regime        string
		)
		if err := rows.Scan(&workerID, &effectiveFrom, &effectiveTo, &baseSalary, &benefits, &hazardous, &regime); err != nil {
			rows.Close()
			return nil, err
		}
		rates = append(rates, reference.HydrateWageRate(
			uint(workerID),
			dateValue(effectiveFrom),
			datePtr(effectiveTo),
			decimalValue(baseSalary),
			decimalValue(benefits),
			hazardous,
			reference.Regime(regime),
		))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reference.NewSnapshot(workers, projects, rates), nil
}

func tenantIDs(ctx context.Context) (uuid.UUID, pgtype.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, pgtype.UUID{}, fmt.Errorf("failed to get tenant from context: %w", err)
	}
	return tenantID, pgUUIDFromUUID(tenantID), nil
}
