package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "timesheet",
		Short:         "Timesheet import and reconciliation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("tenant", "", "tenant id (uuid), required")

	root.AddCommand(validateCmd(), importCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("error: %v", err)
	}
}
