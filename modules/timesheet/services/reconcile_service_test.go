package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/block"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func seedBlock(t *testing.T, repo *memBlockRepo, tenantID uuid.UUID, start, end time.Time) block.AllocationBlock {
	t.Helper()
	b, err := repo.Create(context.Background(), block.New(tenantID, 1, 7, start, end, block.KindActual))
	require.NoError(t, err)
	return b
}

func TestReconcile_CreatesBlockWhenNoneExists(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(5), day(6)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Created)
	blocks := repo.all()
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Start().Equal(day(5)))
	assert.True(t, blocks[0].End().Equal(day(6)))
	requireInvariant(t, repo, 1)
}

func TestReconcile_ExtendsOnAdjacency(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	seedBlock(t, repo, tenantID, day(5), day(6))
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(7)})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 1, stats.Extended)
	blocks := repo.all()
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Start().Equal(day(5)))
	assert.True(t, blocks[0].End().Equal(day(7)))
	requireInvariant(t, repo, 1)
}

func TestReconcile_CoveredClusterIsNoOp(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	seedBlock(t, repo, tenantID, day(1), day(10))
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(4), day(5)})
	require.NoError(t, err)

	assert.Equal(t, services.ReconcileStats{}, stats)
	require.Len(t, repo.all(), 1)
}

func TestReconcile_AbsorbsDuplicates(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	first := seedBlock(t, repo, tenantID, day(5), day(6))
	seedBlock(t, repo, tenantID, day(6), day(8))
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(4), day(5), day(6), day(7)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Extended)
	assert.Equal(t, 1, stats.Deleted)
	blocks := repo.all()
	require.Len(t, blocks, 1)
	// The lowest id survives, spanning the union of all ranges.
	assert.Equal(t, first.ID(), blocks[0].ID())
	assert.True(t, blocks[0].Start().Equal(day(4)))
	assert.True(t, blocks[0].End().Equal(day(8)))
	requireInvariant(t, repo, 1)
}

func TestReconcile_Idempotent(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	svc := services.NewReconcileService(repo, 1, testLogger())
	dates := []time.Time{day(5), day(6), day(7), day(12)}

	_, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, dates)
	require.NoError(t, err)
	firstState := repo.all()

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, dates)
	require.NoError(t, err)

	assert.Equal(t, services.ReconcileStats{}, stats)
	assert.Equal(t, firstState, repo.all())
	requireInvariant(t, repo, 1)
}

func TestReconcile_GapBeyondToleranceKeepsSeparateBlocks(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	seedBlock(t, repo, tenantID, day(1), day(2))
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(5)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Created)
	require.Len(t, repo.all(), 2)
	requireInvariant(t, repo, 1)
}

func TestReconcile_DistinctKindsDoNotMerge(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemBlockRepo()
	_, err := repo.Create(context.Background(), block.New(tenantID, 1, 7, day(5), day(6), block.KindPlanned))
	require.NoError(t, err)
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(tenantID), 1, 7, block.KindActual, []time.Time{day(7)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Created)
	assert.Len(t, repo.all(), 2)
}

func TestReconcile_NoDatesIsNoOp(t *testing.T) {
	repo := newMemBlockRepo()
	svc := services.NewReconcileService(repo, 1, testLogger())

	stats, err := svc.Reconcile(testCtx(uuid.New()), 1, 7, block.KindActual, nil)
	require.NoError(t, err)
	assert.Equal(t, services.ReconcileStats{}, stats)
}
