package entry

import "github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"

type Classification string

const (
	ClassificationOK      Classification = "OK"
	ClassificationWarning Classification = "WARNING"
	ClassificationError   Classification = "ERROR"
	ClassificationIgnored Classification = "IGNORED"
)

type ReasonCode string

const (
	ReasonNone            ReasonCode = ""
	ReasonInvalidID       ReasonCode = "INVALID_ID"
	ReasonIDNotFound      ReasonCode = "ID_NOT_FOUND"
	ReasonInvalidDate     ReasonCode = "INVALID_DATE"
	ReasonProjectPending  ReasonCode = "PROJECT_PENDING"
	ReasonProjectNotFound ReasonCode = "PROJECT_NOT_FOUND"
	ReasonInvalidHours    ReasonCode = "INVALID_HOURS"
	ReasonNoEffectiveRate ReasonCode = "NO_EFFECTIVE_RATE"
)

// Outcome is the terminal result of validating one row. Constructed once by
// the rule chain and immutable afterwards; failures travel as data, never as
// faults that could abort the batch.
type Outcome struct {
	line           int
	classification Classification
	reason         ReasonCode
	message        string

	rawTaxID       string
	rawDate        string
	rawProjectCode string

	entry     *ParsedEntry
	workerID  uint
	projectID uint
	rate      *reference.WageRate
}

type RowInput struct {
	Line        int
	TaxID       string
	Date        string
	ProjectCode string
}

func Ignored(in RowInput) Outcome {
	return Outcome{
		line:           in.Line,
		classification: ClassificationIgnored,
		rawTaxID:       in.TaxID,
		rawDate:        in.Date,
		rawProjectCode: in.ProjectCode,
	}
}

func Errored(in RowInput, reason ReasonCode, message string) Outcome {
	return Outcome{
		line:           in.Line,
		classification: ClassificationError,
		reason:         reason,
		message:        message,
		rawTaxID:       in.TaxID,
		rawDate:        in.Date,
		rawProjectCode: in.ProjectCode,
	}
}

// Warned keeps the parsed entry: both warning reasons remain importable.
func Warned(in RowInput, reason ReasonCode, message string, e ParsedEntry, workerID uint, projectID uint) Outcome {
	return Outcome{
		line:           in.Line,
		classification: ClassificationWarning,
		reason:         reason,
		message:        message,
		rawTaxID:       in.TaxID,
		rawDate:        in.Date,
		rawProjectCode: in.ProjectCode,
		entry:          &e,
		workerID:       workerID,
		projectID:      projectID,
	}
}

func Accepted(in RowInput, e ParsedEntry, workerID, projectID uint, rate reference.WageRate) Outcome {
	return Outcome{
		line:           in.Line,
		classification: ClassificationOK,
		rawTaxID:       in.TaxID,
		rawDate:        in.Date,
		rawProjectCode: in.ProjectCode,
		entry:          &e,
		workerID:       workerID,
		projectID:      projectID,
		rate:           &rate,
	}
}

func (o Outcome) Line() int                      { return o.line }
func (o Outcome) Classification() Classification { return o.classification }
func (o Outcome) Reason() ReasonCode             { return o.reason }
func (o Outcome) Message() string                { return o.message }
func (o Outcome) RawTaxID() string               { return o.rawTaxID }
func (o Outcome) RawDate() string                { return o.rawDate }
func (o Outcome) RawProjectCode() string         { return o.rawProjectCode }
func (o Outcome) WorkerID() uint                 { return o.workerID }
func (o Outcome) ProjectID() uint                { return o.projectID }

// Entry returns the parsed row when validation got far enough to build one.
func (o Outcome) Entry() (ParsedEntry, bool) {
	if o.entry == nil {
		return ParsedEntry{}, false
	}
	return *o.entry, true
}

// Rate returns the resolved effective wage rate, when one was found.
func (o Outcome) Rate() (reference.WageRate, bool) {
	if o.rate == nil {
		return reference.WageRate{}, false
	}
	return *o.rate, true
}

// Importable rows are persisted: OK and both warning classes. Errors are
// excluded; ignored rows are excluded and unreported.
func (o Outcome) Importable() bool {
	return o.classification == ClassificationOK || o.classification == ClassificationWarning
}

// HasProject reports whether a project was resolved; only such rows feed
// block reconciliation.
func (o Outcome) HasProject() bool {
	return o.projectID != 0
}
