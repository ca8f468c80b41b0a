package block

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPlanned Kind = "planned"
	KindActual  Kind = "actual"
)

// AllocationBlock is a maximal contiguous date range expressing that a worker
// was associated with a project. Within one (worker, project, kind) group no
// two blocks overlap or sit within the adjacency tolerance of each other;
// reconciliation restores that invariant after every merge.
type AllocationBlock struct {
	id        uint
	tenantID  uuid.UUID
	workerID  uint
	projectID uint
	start     time.Time
	end       time.Time
	kind      Kind
}

// New builds an unsaved block; the id is assigned by the store.
func New(tenantID uuid.UUID, workerID, projectID uint, start, end time.Time, kind Kind) AllocationBlock {
	return AllocationBlock{
		tenantID:  tenantID,
		workerID:  workerID,
		projectID: projectID,
		start:     start,
		end:       end,
		kind:      kind,
	}
}

func Hydrate(id uint, tenantID uuid.UUID, workerID, projectID uint, start, end time.Time, kind Kind) AllocationBlock {
	return AllocationBlock{
		id:        id,
		tenantID:  tenantID,
		workerID:  workerID,
		projectID: projectID,
		start:     start,
		end:       end,
		kind:      kind,
	}
}

func (b AllocationBlock) ID() uint            { return b.id }
func (b AllocationBlock) TenantID() uuid.UUID { return b.tenantID }
func (b AllocationBlock) WorkerID() uint      { return b.workerID }
func (b AllocationBlock) ProjectID() uint     { return b.projectID }
func (b AllocationBlock) Start() time.Time    { return b.start }
func (b AllocationBlock) End() time.Time      { return b.end }
func (b AllocationBlock) Kind() Kind          { return b.kind }

// Contains reports whether the block fully covers [start, end].
func (b AllocationBlock) Contains(start, end time.Time) bool {
	return !b.start.After(start) && !b.end.Before(end)
}

// WithRange returns a copy spanning the new interval.
func (b AllocationBlock) WithRange(start, end time.Time) AllocationBlock {
	b.start = start
	b.end = end
	return b
}
