package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/reference"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/excel"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type validateResponse struct {
	Summary services.Summary     `json:"summary"`
	Rows    []services.ReportRow `json:"rows"`
}

type importResponse struct {
	RunID          string               `json:"runId"`
	Summary        services.Summary     `json:"summary"`
	BlocksCreated  int                  `json:"blocksCreated"`
	BlocksExtended int                  `json:"blocksExtended"`
	BlocksDeleted  int                  `json:"blocksDeleted"`
	TotalCost      decimal.Decimal      `json:"totalCost"`
	Rows           []services.ReportRow `json:"rows"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportController exposes validation and import of timesheet files. Both
// endpoints take a multipart upload under the "file" field.
type ImportController struct {
	imports       *services.ImportService
	logger        *logrus.Logger
	maxUploadSize int64
	basePath      string
}

func NewImportController(imports *services.ImportService, logger *logrus.Logger, maxUploadSize int64) *ImportController {
	return &ImportController{
		imports:       imports,
		logger:        logger,
		maxUploadSize: maxUploadSize,
		basePath:      "/timesheet",
	}
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/imports/validate", c.Validate).Methods(http.MethodPost)
	router.HandleFunc("/imports", c.Import).Methods(http.MethodPost)
}

// Validate classifies the uploaded file without side effects. With
// ?format=xlsx the outcome report is returned as a workbook download.
func (c *ImportController) Validate(w http.ResponseWriter, r *http.Request) {
	rows, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	result, err := composables.InTxResult(r.Context(), func(txCtx context.Context) (services.Result, error) {
		snap, err := c.imports.LoadSnapshot(txCtx)
		if err != nil {
			return services.Result{}, err
		}
		outcomes := c.imports.ValidateBatch(txCtx, rows, snap)
		return services.Result{
			Outcomes: outcomes,
			Summary:  services.Summarize(outcomes),
		}, nil
	})
	if err != nil {
		c.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		c.writeWorkbook(w, result)
		return
	}
	c.writeJSON(w, http.StatusOK, validateResponse{
		Summary: result.Summary,
		Rows:    services.GenerateReport(result.Outcomes),
	})
}

// Import runs the full pipeline: validate, persist, reconcile blocks.
func (c *ImportController) Import(w http.ResponseWriter, r *http.Request) {
	rows, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	result, err := composables.InTxResult(r.Context(), func(txCtx context.Context) (services.Result, error) {
		snap, err := c.imports.LoadSnapshot(txCtx)
		if err != nil {
			return services.Result{}, err
		}
		return c.imports.RunImport(txCtx, rows, snap)
	})
	if err != nil {
		c.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		c.writeWorkbook(w, result)
		return
	}
	c.writeJSON(w, http.StatusOK, importResponse{
		RunID:          result.RunID.String(),
		Summary:        result.Summary,
		BlocksCreated:  result.Blocks.Created,
		BlocksExtended: result.Blocks.Extended,
		BlocksDeleted:  result.Blocks.Deleted,
		TotalCost:      result.TotalCost,
		Rows:           services.GenerateReport(result.Outcomes),
	})
}

func (c *ImportController) readUpload(w http.ResponseWriter, r *http.Request) ([]entry.RawRow, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		c.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:    "IMPORT_UPLOAD_TOO_LARGE",
			Message: "upload exceeds the size limit",
		})
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "IMPORT_MISSING_FILE",
			Message: "multipart field 'file' is required",
		})
		return nil, false
	}
	defer file.Close()

	rows, err := excel.ReadFile(header.Filename, file)
	if err != nil {
		c.writeError(w, err)
		return nil, false
	}
	return rows, true
}

func (c *ImportController) writeWorkbook(w http.ResponseWriter, result services.Result) {
	buf, err := excel.WriteReport(result)
	if err != nil {
		c.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="import-report.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		c.logger.WithError(err).Error("failed to stream report")
	}
}

func (c *ImportController) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.logger.WithError(err).Error("failed to encode response")
	}
}

func (c *ImportController) writeError(w http.ResponseWriter, err error) {
	var base *serrors.Base
	if errors.As(err, &base) {
		status := http.StatusBadRequest
		if errors.Is(err, reference.ErrEmptySnapshot) {
			status = http.StatusConflict
		}
		c.writeJSON(w, status, errorResponse{Code: base.Code, Message: base.Message})
		return
	}
	c.logger.WithError(err).Error("import request failed")
	c.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}
