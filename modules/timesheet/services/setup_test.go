package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/block"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/logging"
)

// stubTx satisfies pgx.Tx for contexts; repositories in these tests are
// in-memory, so no method is ever invoked.
type stubTx struct{ pgx.Tx }

func testCtx(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTenantID(context.Background(), tenantID)
	return composables.WithTx(ctx, stubTx{})
}

func testLogger() *logrus.Logger {
	return logging.ConsoleLogger(logrus.PanicLevel)
}

type memBlockRepo struct {
	mu     sync.Mutex
	nextID uint
	blocks map[uint]block.AllocationBlock
}

func newMemBlockRepo() *memBlockRepo {
	return &memBlockRepo{nextID: 1, blocks: make(map[uint]block.AllocationBlock)}
}

func (m *memBlockRepo) OverlappingOrAdjacent(
	_ context.Context,
	workerID, projectID uint,
	kind block.Kind,
	start, end time.Time,
	toleranceDays int,
) ([]block.AllocationBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lo := start.AddDate(0, 0, -toleranceDays)
	hi := end.AddDate(0, 0, toleranceDays)
	var out []block.AllocationBlock
	for _, b := range m.blocks {
		if b.WorkerID() != workerID || b.ProjectID() != projectID || b.Kind() != kind {
			continue
		}
		if b.Start().After(hi) || b.End().Before(lo) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *memBlockRepo) Create(_ context.Context, b block.AllocationBlock) (block.AllocationBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := block.Hydrate(m.nextID, b.TenantID(), b.WorkerID(), b.ProjectID(), b.Start(), b.End(), b.Kind())
	m.blocks[m.nextID] = created
	m.nextID++
	return created, nil
}

func (m *memBlockRepo) Update(_ context.Context, b block.AllocationBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[b.ID()]; !ok {
		return fmt.Errorf("block %d not found", b.ID())
	}
	m.blocks[b.ID()] = b
	return nil
}

func (m *memBlockRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[id]; !ok {
		return fmt.Errorf("block %d not found", id)
	}
	delete(m.blocks, id)
	return nil
}

func (m *memBlockRepo) all() []block.AllocationBlock {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]block.AllocationBlock, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start().Before(out[j].Start()) })
	return out
}

// requireInvariant asserts that no two stored blocks of the same group
// overlap or sit within toleranceDays of each other.
func requireInvariant(t *testing.T, repo *memBlockRepo, toleranceDays int) {
	t.Helper()
	blocks := repo.all()
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			a, b := blocks[i], blocks[j]
			if a.WorkerID() != b.WorkerID() || a.ProjectID() != b.ProjectID() || a.Kind() != b.Kind() {
				continue
			}
			gap := b.Start().Sub(a.End()).Hours() / 24
			require.Greater(t, gap, float64(toleranceDays),
				"blocks %d and %d violate the invariant", a.ID(), b.ID())
		}
	}
}

type storedEntry struct {
	id        uint
	workerID  uint
	projectID *uint
	entry     entry.ParsedEntry
}

type memEntryRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[string]storedEntry
	costs   map[uint]entry.CostBreakdown
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{
		nextID:  1,
		entries: make(map[string]storedEntry),
		costs:   make(map[uint]entry.CostBreakdown),
	}
}

func entryKey(e entry.ParsedEntry, projectID *uint) string {
	p := uint(0)
	if projectID != nil {
		p = *projectID
	}
	return fmt.Sprintf("%s/%s/%d", e.TaxID().Value(), e.Date().Format("2006-01-02"), p)
}

func (m *memEntryRepo) UpsertTimeEntry(_ context.Context, workerID uint, projectID *uint, e entry.ParsedEntry) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entryKey(e, projectID)
	if existing, ok := m.entries[key]; ok {
		existing.workerID = workerID
		existing.entry = e
		m.entries[key] = existing
		return existing.id, nil
	}
	stored := storedEntry{id: m.nextID, workerID: workerID, projectID: projectID, entry: e}
	m.entries[key] = stored
	m.nextID++
	return stored.id, nil
}

func (m *memEntryRepo) UpsertCostBreakdown(_ context.Context, entryID uint, c entry.CostBreakdown) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.costs[entryID] = c
	return nil
}

type stubRefRepo struct {
	snapshot *reference.Snapshot
}

func (s *stubRefRepo) LoadSnapshot(context.Context) (*reference.Snapshot, error) {
	return s.snapshot, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, args...)
}

func (p *recordingPublisher) Subscribe(interface{})   {}
func (p *recordingPublisher) Unsubscribe(interface{}) {}
func (p *recordingPublisher) Clear()                  {}
func (p *recordingPublisher) SubscribersCount() int   { return 0 }

const (
	workerTaxID  = "529.982.247-25"
	secondTaxID  = "111.444.777-35"
	unknownTaxID = "987.654.321-00"
)

func testSnapshot(t *testing.T, tenantID uuid.UUID) *reference.Snapshot {
	t.Helper()

	first, err := taxid.New(workerTaxID)
	require.NoError(t, err)
	second, err := taxid.New(secondTaxID)
	require.NoError(t, err)

	rateFrom := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return reference.NewSnapshot(
		[]reference.Worker{
			reference.HydrateWorker(1, tenantID, first, "Jo Silva"),
			reference.HydrateWorker(2, tenantID, second, "Sam Costa"),
		},
		[]reference.Project{
			reference.HydrateProject(7, tenantID, "WO-100", "Line upgrade"),
			reference.HydrateProject(8, tenantID, "WO-200", "Substation"),
		},
		[]reference.WageRate{
			reference.HydrateWageRate(1, rateFrom, nil,
				decimal.NewFromInt(5000), decimal.Zero, false, reference.RegimeEmployee),
			reference.HydrateWageRate(2, rateFrom, nil,
				decimal.NewFromInt(2200), decimal.Zero, false, reference.RegimeEmployee),
		},
	)
}
