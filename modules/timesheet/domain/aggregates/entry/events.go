package entry

import (
	"time"

	"github.com/google/uuid"
)

// ImportCompletedEvent is published after a run commits.
type ImportCompletedEvent struct {
	TenantID      uuid.UUID
	RunID         uuid.UUID
	OK            int
	Warning       int
	Error         int
	BlocksCreated int
	BlocksMerged  int
	FinishedAt    time.Time
}
