package reference

import (
	"context"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

var ErrEmptySnapshot = serrors.NewError(
	"REFERENCE_SNAPSHOT_EMPTY",
	"reference master data is empty or unreachable",
	"",
)

// Repository loads the reference master data the engine validates against.
// The engine only ever reads workers, projects and wage-rate history.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}
