package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/block"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/costing"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/validation"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

var ErrNothingToImport = serrors.NewError(
	"IMPORT_NOTHING_TO_IMPORT",
	"no importable rows in the batch",
	"",
)

// Summary counts outcomes per classification. Ignored rows are never counted.
type Summary struct {
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

func (s Summary) Importable() int { return s.OK + s.Warning }

// Result is what one import run produced.
type Result struct {
	RunID     uuid.UUID
	Outcomes  []entry.Outcome
	Summary   Summary
	Blocks    ReconcileStats
	TotalCost decimal.Decimal
}

// ReportRow is one line of the downloadable validation report.
type ReportRow struct {
	Line        int    `json:"line"`
	TaxID       string `json:"taxId"`
	Date        string `json:"date"`
	ProjectCode string `json:"projectCode"`
	Status      string `json:"status"`
	ReasonCode  string `json:"reasonCode"`
	Message     string `json:"message"`
}

// ImportService drives a batch over all rows: classify, persist importable
// rows with their cost breakdowns, then reconcile allocation blocks per
// (worker, project) pair. One malformed row never stops the rest of the
// batch.
type ImportService struct {
	entries    entry.Repository
	references reference.Repository
	reconciler *ReconcileService
	publisher  eventbus.EventBus
	logger     *logrus.Logger
	workers    int
}

func NewImportService(
	entries entry.Repository,
	references reference.Repository,
	reconciler *ReconcileService,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
	workers int,
) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{
		entries:    entries,
		references: references,
		reconciler: reconciler,
		publisher:  publisher,
		logger:     logger,
		workers:    workers,
	}
}

// LoadSnapshot freezes the reference master data for a run. An empty
// snapshot is the one fatal condition: it aborts before any row is touched.
func (s *ImportService) LoadSnapshot(ctx context.Context) (*reference.Snapshot, error) {
	snap, err := s.references.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, reference.ErrEmptySnapshot
	}
	return snap, nil
}

// ValidateBatch classifies every row with no side effects. Rows are
// validated concurrently; the returned slice preserves input order.
func (s *ImportService) ValidateBatch(ctx context.Context, rows []entry.RawRow, snap *reference.Snapshot) []entry.Outcome {
	v := validation.NewValidator(snap)
	outcomes := make([]entry.Outcome, len(rows))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = v.Validate(rows[i])
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// Summarize folds outcomes into per-classification counts, dropping ignored
// rows from every total.
func Summarize(outcomes []entry.Outcome) Summary {
	var sum Summary
	for _, o := range outcomes {
		switch o.Classification() {
		case entry.ClassificationOK:
			sum.OK++
		case entry.ClassificationWarning:
			sum.Warning++
		case entry.ClassificationError:
			sum.Error++
		}
	}
	return sum
}

type pairKey struct {
	workerID  uint
	projectID uint
}

// RunImport validates the batch, persists importable rows and reconciles
// allocation blocks. Refuses to run when nothing is importable.
func (s *ImportService) RunImport(ctx context.Context, rows []entry.RawRow, snap *reference.Snapshot) (Result, error) {
	outcomes := s.ValidateBatch(ctx, rows, snap)
	summary := Summarize(outcomes)
	result := Result{
		RunID:    uuid.New(),
		Outcomes: outcomes,
		Summary:  summary,
	}

	if summary.Importable() == 0 {
		return result, ErrNothingToImport
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return result, err
	}

	occupied := make(map[pairKey][]time.Time)
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		for _, o := range outcomes {
			if !o.Importable() {
				continue
			}
			e, ok := o.Entry()
			if !ok {
				continue
			}

			var projectID *uint
			if o.HasProject() {
				id := o.ProjectID()
				projectID = &id
			}

			entryID, err := s.entries.UpsertTimeEntry(txCtx, o.WorkerID(), projectID, e)
			if err != nil {
				return err
			}

			// Pending-project rows have no project-linked cost; everything
			// else gets a breakdown, computed or explicitly unavailable.
			if o.HasProject() {
				cost := costForOutcome(o, e)
				if err := s.entries.UpsertCostBreakdown(txCtx, entryID, cost); err != nil {
					return err
				}
				if cost.Computed() {
					result.TotalCost = result.TotalCost.Add(cost.Total())
				}
				key := pairKey{workerID: o.WorkerID(), projectID: o.ProjectID()}
				occupied[key] = append(occupied[key], e.Date())
			}
		}

		for _, key := range sortedKeys(occupied) {
			stats, err := s.reconciler.Reconcile(txCtx, key.workerID, key.projectID, block.KindActual, occupied[key])
			if err != nil {
				return err
			}
			result.Blocks = result.Blocks.Add(stats)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	s.logger.WithFields(logrus.Fields{
		"run":     result.RunID,
		"ok":      summary.OK,
		"warning": summary.Warning,
		"error":   summary.Error,
	}).Info("import run committed")

	s.publisher.Publish(&entry.ImportCompletedEvent{
		TenantID:      tenantID,
		RunID:         result.RunID,
		OK:            summary.OK,
		Warning:       summary.Warning,
		Error:         summary.Error,
		BlocksCreated: result.Blocks.Created,
		BlocksMerged:  result.Blocks.Extended,
		FinishedAt:    time.Now(),
	})

	return result, nil
}

// GenerateReport flattens outcomes into the downloadable tabular form,
// preserving input row order. Ignored rows are excluded.
func GenerateReport(outcomes []entry.Outcome) []ReportRow {
	rows := make([]ReportRow, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Classification() == entry.ClassificationIgnored {
			continue
		}
		rows = append(rows, ReportRow{
			Line:        o.Line(),
			TaxID:       o.RawTaxID(),
			Date:        o.RawDate(),
			ProjectCode: o.RawProjectCode(),
			Status:      string(o.Classification()),
			ReasonCode:  string(o.Reason()),
			Message:     o.Message(),
		})
	}
	return rows
}

func costForOutcome(o entry.Outcome, e entry.ParsedEntry) entry.CostBreakdown {
	rate, ok := o.Rate()
	if !ok {
		return costing.Unavailable()
	}
	return costing.Compute(e, rate)
}

func sortedKeys(m map[pairKey][]time.Time) []pairKey {
	keys := make([]pairKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].workerID != keys[j].workerID {
			return keys[i].workerID < keys[j].workerID
		}
		return keys[i].projectID < keys[j].projectID
	})
	return keys
}
