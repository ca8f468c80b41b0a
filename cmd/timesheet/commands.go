package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/iota-uz/timesheet/modules/timesheet"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/entry"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/excel"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/configuration"
	"github.com/iota-uz/timesheet/pkg/eventbus"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Classify every row of a timesheet file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRun(cmd, args[0], func(ctx context.Context, svc *services.ImportService, rows []entry.RawRow) error {
				return composables.InTx(ctx, func(txCtx context.Context) error {
					snap, err := svc.LoadSnapshot(txCtx)
					if err != nil {
						return err
					}
					outcomes := svc.ValidateBatch(txCtx, rows, snap)
					printOutcomes(cmd, outcomes)
					printSummary(cmd, services.Summarize(outcomes))
					return nil
				})
			})
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Validate, persist and reconcile a timesheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRun(cmd, args[0], func(ctx context.Context, svc *services.ImportService, rows []entry.RawRow) error {
				result, err := composables.InTxResult(ctx, func(txCtx context.Context) (services.Result, error) {
					snap, err := svc.LoadSnapshot(txCtx)
					if err != nil {
						return services.Result{}, err
					}
					return svc.RunImport(txCtx, rows, snap)
				})
				if err != nil {
					return err
				}
				printSummary(cmd, result.Summary)
				cmd.Printf("blocks: created=%d extended=%d deleted=%d\n",
					result.Blocks.Created, result.Blocks.Extended, result.Blocks.Deleted)
				cmd.Printf("total cost: %s\n", excel.FormatBRL(result.TotalCost))
				return nil
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the timesheet schema to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
			if err != nil {
				return err
			}
			defer pool.Close()

			schema, err := timesheet.MigrationFiles().ReadFile("infrastructure/persistence/schema/timesheet-schema.sql")
			if err != nil {
				return err
			}
			if _, err := pool.Exec(ctx, string(schema)); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
			cmd.Println("schema applied")
			return nil
		},
	}
}

// withRun opens the input file and database, seeds the context with the pool
// and tenant, and hands control to the command body.
func withRun(
	cmd *cobra.Command,
	path string,
	fn func(ctx context.Context, svc *services.ImportService, rows []entry.RawRow) error,
) error {
	conf := configuration.Use()
	logger := conf.Logger()

	rawTenant, err := cmd.Flags().GetString("tenant")
	if err != nil {
		return err
	}
	tenantID, err := uuid.Parse(rawTenant)
	if err != nil {
		return fmt.Errorf("--tenant must be a valid uuid: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := excel.ReadFile(filepath.Base(path), f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx = composables.WithPool(ctx, pool)
	ctx = composables.WithTenantID(ctx, tenantID)

	module := timesheet.NewModule(conf, eventbus.NewEventPublisher(logger), logger)
	return fn(ctx, module.ImportService, rows)
}

func printOutcomes(cmd *cobra.Command, outcomes []entry.Outcome) {
	for _, row := range services.GenerateReport(outcomes) {
		if row.ReasonCode == "" {
			cmd.Printf("line %d: %s\n", row.Line, row.Status)
			continue
		}
		cmd.Printf("line %d: %s %s %s\n", row.Line, row.Status, row.ReasonCode, row.Message)
	}
}

func printSummary(cmd *cobra.Command, sum services.Summary) {
	cmd.Printf("ok=%d warning=%d error=%d\n", sum.OK, sum.Warning, sum.Error)
}
