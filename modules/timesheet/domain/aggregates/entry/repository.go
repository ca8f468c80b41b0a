package entry

import "context"

// Repository is the persistence port for accepted rows. Upserts are keyed on
// (tenant, tax id, date, project) so re-importing the same file converges on
// the same stored state.
type Repository interface {
	// UpsertTimeEntry persists the entry and returns its storage id.
	// projectID is nil for rows accepted with a pending project.
	UpsertTimeEntry(ctx context.Context, workerID uint, projectID *uint, e ParsedEntry) (uint, error)
	// UpsertCostBreakdown persists the cost derived for an entry.
	UpsertCostBreakdown(ctx context.Context, entryID uint, c CostBreakdown) error
}
