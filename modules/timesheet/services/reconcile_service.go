package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/block"
	"github.com/iota-uz/timesheet/pkg/composables"
)

// ReconcileStats summarizes what one reconciliation pass did to the stored
// blocks.
type ReconcileStats struct {
	Created  int
	Extended int
	Deleted  int
}

func (s ReconcileStats) Add(o ReconcileStats) ReconcileStats {
	s.Created += o.Created
	s.Extended += o.Extended
	s.Deleted += o.Deleted
	return s
}

// ReconcileService folds newly-occupied dates into the allocation blocks of a
// (worker, project, kind) group while keeping the non-overlap/non-adjacency
// invariant. Read-modify-write for one group is serialized behind a per-key
// lock: concurrent merges of the same key could otherwise violate the
// invariant.
type ReconcileService struct {
	repo          block.Repository
	toleranceDays int
	logger        *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReconcileService(repo block.Repository, toleranceDays int, logger *logrus.Logger) *ReconcileService {
	return &ReconcileService{
		repo:          repo,
		toleranceDays: toleranceDays,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
	}
}

func (s *ReconcileService) keyLock(tenantID uuid.UUID, workerID, projectID uint, kind block.Kind) *sync.Mutex {
	key := fmt.Sprintf("%s/%d/%d/%s", tenantID, workerID, projectID, kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// Reconcile merges the given occupied dates into the stored blocks of the
// group. Safe to re-run with the same input: a fully covered cluster is a
// no-op, so the operation converges.
func (s *ReconcileService) Reconcile(
	ctx context.Context,
	workerID, projectID uint,
	kind block.Kind,
	dates []time.Time,
) (ReconcileStats, error) {
	var stats ReconcileStats
	clusters := block.Clusters(dates)
	if len(clusters) == 0 {
		return stats, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return stats, err
	}

	l := s.keyLock(tenantID, workerID, projectID, kind)
	l.Lock()
	defer l.Unlock()

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		for _, cluster := range clusters {
			st, err := s.reconcileCluster(txCtx, tenantID, workerID, projectID, kind, cluster)
			if err != nil {
				return err
			}
			stats = stats.Add(st)
		}
		return nil
	})
	if err != nil {
		return ReconcileStats{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"worker":   workerID,
		"project":  projectID,
		"kind":     kind,
		"created":  stats.Created,
		"extended": stats.Extended,
		"deleted":  stats.Deleted,
	}).Debug("blocks reconciled")
	return stats, nil
}

func (s *ReconcileService) reconcileCluster(
	ctx context.Context,
	tenantID uuid.UUID,
	workerID, projectID uint,
	kind block.Kind,
	cluster block.Cluster,
) (ReconcileStats, error) {
	var stats ReconcileStats

	candidates, err := s.repo.OverlappingOrAdjacent(
		ctx, workerID, projectID, kind, cluster.Start, cluster.End, s.toleranceDays,
	)
	if err != nil {
		return stats, err
	}

	for _, c := range candidates {
		if c.Contains(cluster.Start, cluster.End) {
			return stats, nil
		}
	}

	if len(candidates) == 0 {
		created := block.New(tenantID, workerID, projectID, cluster.Start, cluster.End, kind)
		if _, err := s.repo.Create(ctx, created); err != nil {
			return stats, err
		}
		stats.Created++
		return stats, nil
	}

	// Absorb every candidate into the one with the lowest id.
	newStart, newEnd := cluster.Start, cluster.End
	survivor := candidates[0]
	for _, c := range candidates {
		if c.Start().Before(newStart) {
			newStart = c.Start()
		}
		if c.End().After(newEnd) {
			newEnd = c.End()
		}
		if c.ID() < survivor.ID() {
			survivor = c
		}
	}

	if err := s.repo.Update(ctx, survivor.WithRange(newStart, newEnd)); err != nil {
		return stats, err
	}
	stats.Extended++

	for _, c := range candidates {
		if c.ID() == survivor.ID() {
			continue
		}
		if err := s.repo.Delete(ctx, c.ID()); err != nil {
			return stats, err
		}
		stats.Deleted++
	}
	return stats, nil
}
