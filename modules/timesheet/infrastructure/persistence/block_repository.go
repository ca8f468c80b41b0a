package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/block"
	"github.com/iota-uz/timesheet/pkg/composables"
)

const (
	selectCandidateBlocksQuery = `
		SELECT id, tenant_id, worker_id, project_id, start_date, end_date, kind
		FROM allocation_blocks
		WHERE tenant_id = $1
		  AND worker_id = $2
		  AND project_id = $3
		  AND kind = $4
		  AND start_date <= $5
		  AND end_date >= $6
		ORDER BY id`
	insertBlockQuery = `
		INSERT INTO allocation_blocks (tenant_id, worker_id, project_id, start_date, end_date, kind, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id`
	updateBlockQuery = `
		UPDATE allocation_blocks
		SET start_date = $2, end_date = $3, updated_at = now()
		WHERE id = $1`
	deleteBlockQuery = `DELETE FROM allocation_blocks WHERE id = $1`
)

type BlockRepository struct{}

func NewBlockRepository() block.Repository {
	return &BlockRepository{}
}

// OverlappingOrAdjacent returns the blocks of the (worker, project, kind)
// group whose range intersects [start-tolerance, end+tolerance], ordered by
// ascending id. The widened range is computed here so the query stays a plain
// interval comparison.
func (r *BlockRepository) OverlappingOrAdjacent(
	ctx context.Context,
	workerID, projectID uint,
	kind block.Kind,
	start, end time.Time,
	toleranceDays int,
) ([]block.AllocationBlock, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	hi := end.AddDate(0, 0, toleranceDays)
	lo := start.AddDate(0, 0, -toleranceDays)
	rows, err := tx.Query(
		ctx,
		selectCandidateBlocksQuery,
		pgTenantID,
		int64(workerID),
		int64(projectID),
		string(kind),
		pgDate(hi),
		pgDate(lo),
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query allocation blocks")
	}
	defer rows.Close()

	var out []block.AllocationBlock
	for rows.Next() {
		var (
			id        int64
			tenantID  pgtype.UUID
			wID, pID  int64
			startDate pgtype.Date
			endDate   pgtype.Date
			kindValue string
		)
		if err := rows.Scan(&id, &tenantID, &wID, &pID, &startDate, &endDate, &kindValue); err != nil {
			return nil, err
		}
		out = append(out, block.Hydrate(
			uint(id),
			tenantID.Bytes,
			uint(wID),
			uint(pID),
			dateValue(startDate),
			dateValue(endDate),
			block.Kind(kindValue),
		))
	}
	return out, rows.Err()
}

func (r *BlockRepository) Create(ctx context.Context, b block.AllocationBlock) (block.AllocationBlock, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return block.AllocationBlock{}, err
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		insertBlockQuery,
		pgUUIDFromUUID(b.TenantID()),
		int64(b.WorkerID()),
		int64(b.ProjectID()),
		pgDate(b.Start()),
		pgDate(b.End()),
		string(b.Kind()),
	).Scan(&id); err != nil {
		return block.AllocationBlock{}, gerrors.Wrap(err, "failed to insert allocation block")
	}
	return block.Hydrate(uint(id), b.TenantID(), b.WorkerID(), b.ProjectID(), b.Start(), b.End(), b.Kind()), nil
}

func (r *BlockRepository) Update(ctx context.Context, b block.AllocationBlock) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, updateBlockQuery, int64(b.ID()), pgDate(b.Start()), pgDate(b.End())); err != nil {
		return gerrors.Wrap(err, "failed to update allocation block")
	}
	return nil
}

func (r *BlockRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteBlockQuery, int64(id)); err != nil {
		return gerrors.Wrap(err, "failed to delete allocation block")
	}
	return nil
}
