package block

import (
	"context"
	"time"
)

// Repository is the persistence port for allocation blocks.
type Repository interface {
	// OverlappingOrAdjacent returns blocks of the (worker, project, kind)
	// group whose range overlaps [start, end] or lies within toleranceDays
	// of either boundary, ordered by ascending id.
	OverlappingOrAdjacent(ctx context.Context, workerID, projectID uint, kind Kind, start, end time.Time, toleranceDays int) ([]AllocationBlock, error)
	Create(ctx context.Context, b AllocationBlock) (AllocationBlock, error)
	Update(ctx context.Context, b AllocationBlock) error
	Delete(ctx context.Context, id uint) error
}
