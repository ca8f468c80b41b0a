package reference

import (
	"sort"
	"time"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/valueobjects/taxid"
)

// Snapshot is the frozen lookup view of the reference master data, built once
// at the start of an import run and read-only afterwards. Passing it by value
// through the pipeline keeps validation deterministic and free of hidden
// global state.
type Snapshot struct {
	workersByTaxID map[string]Worker
	projectsByCode map[string]Project
	ratesByWorker  map[uint][]WageRate
}

func NewSnapshot(workers []Worker, projects []Project, rates []WageRate) *Snapshot {
	s := &Snapshot{
		workersByTaxID: make(map[string]Worker, len(workers)),
		projectsByCode: make(map[string]Project, len(projects)),
		ratesByWorker:  make(map[uint][]WageRate, len(workers)),
	}
	for _, w := range workers {
		s.workersByTaxID[w.TaxID().Value()] = w
	}
	for _, p := range projects {
		s.projectsByCode[p.Code()] = p
	}
	for _, r := range rates {
		s.ratesByWorker[r.WorkerID()] = append(s.ratesByWorker[r.WorkerID()], r)
	}
	for workerID := range s.ratesByWorker {
		list := s.ratesByWorker[workerID]
		sort.Slice(list, func(i, j int) bool {
			return list[i].EffectiveFrom().Before(list[j].EffectiveFrom())
		})
	}
	return s
}

func (s *Snapshot) WorkerByTaxID(id taxid.TaxID) (Worker, bool) {
	w, ok := s.workersByTaxID[id.Value()]
	return w, ok
}

func (s *Snapshot) ProjectByCode(code string) (Project, bool) {
	p, ok := s.projectsByCode[NormalizeProjectCode(code)]
	return p, ok
}

// EffectiveRate selects the wage rate covering the given date, if any. Rate
// intervals never overlap, so at most one matches.
func (s *Snapshot) EffectiveRate(workerID uint, date time.Time) (WageRate, bool) {
	for _, r := range s.ratesByWorker[workerID] {
		if r.Covers(date) {
			return r, true
		}
	}
	return WageRate{}, false
}

// Empty reports whether the snapshot carries no usable reference data. An
// empty snapshot aborts the run before any row is processed.
func (s *Snapshot) Empty() bool {
	return len(s.workersByTaxID) == 0
}

func (s *Snapshot) WorkerCount() int  { return len(s.workersByTaxID) }
func (s *Snapshot) ProjectCount() int { return len(s.projectsByCode) }
