package timesheet

import (
	"embed"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence"
	"github.com/iota-uz/timesheet/modules/timesheet/presentation/controllers"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
	"github.com/iota-uz/timesheet/pkg/configuration"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/server"
)

//go:embed infrastructure/persistence/schema/timesheet-schema.sql
var migrationFiles embed.FS

// MigrationFiles exposes the embedded schema for the migration command.
func MigrationFiles() *embed.FS {
	return &migrationFiles
}

type Module struct {
	ImportService    *services.ImportService
	ReconcileService *services.ReconcileService
}

// NewModule wires repositories and services against the configured import
// options.
func NewModule(conf *configuration.Configuration, bus eventbus.EventBus, logger *logrus.Logger) *Module {
	reconciler := services.NewReconcileService(
		persistence.NewBlockRepository(),
		conf.Import.BlockToleranceDays,
		logger,
	)
	imports := services.NewImportService(
		persistence.NewTimeEntryRepository(),
		persistence.NewReferenceRepository(),
		reconciler,
		bus,
		logger,
		conf.Import.ValidationWorkers,
	)
	return &Module{
		ImportService:    imports,
		ReconcileService: reconciler,
	}
}

func (m *Module) Controllers(conf *configuration.Configuration, logger *logrus.Logger) []server.Controller {
	return []server.Controller{
		controllers.NewImportController(m.ImportService, logger, conf.Import.MaxUploadSize),
	}
}

func (m *Module) Name() string {
	return "timesheet"
}
