/*
migrate.go - Data migration command

PURPOSE:
  Copies invoices into a SQLite database from either another SQLite
  database or a JSON export. Invoices without an id get one assigned,
  so legacy exports keyed only by client can be imported.

EXAMPLES:
  # Copy between databases
  commission-engine migrate --from=old.db --to=commissions.db

  # Import a JSON export
  commission-engine migrate --from=invoices.json --to=commissions.db

  # Wipe the target before importing
  commission-engine migrate --from=invoices.json --to=commissions.db --truncate
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/logger"
	"github.com/warp/commission-engine/store/sqlite"
)

var (
	migrateFrom     string
	migrateTo       string
	migrateTruncate bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy invoices from a SQLite database or JSON export",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Source: SQLite database or .json export (required)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Target SQLite database (required)")
	migrateCmd.Flags().BoolVar(&migrateTruncate, "truncate", false, "Delete target invoices before importing")
	migrateCmd.MarkFlagRequired("from")
	migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")
	ctx := cmd.Context()

	invoices, err := loadSource(ctx, migrateFrom)
	if err != nil {
		return err
	}

	assigned := assignInvoiceIDs(invoices)

	target, err := sqlite.New(migrateTo)
	if err != nil {
		return fmt.Errorf("failed to open target database: %w", err)
	}
	defer target.Close()

	if migrateTruncate {
		if err := target.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to truncate target: %w", err)
		}
	}
	if err := target.SaveBatch(ctx, invoices); err != nil {
		return fmt.Errorf("failed to write invoices: %w", err)
	}

	log.Info().
		Str("from", migrateFrom).
		Str("to", migrateTo).
		Int("invoices", len(invoices)).
		Int("ids_assigned", assigned).
		Msg("migration complete")
	return nil
}

// assignInvoiceIDs gives every id-less invoice a fresh id, in place.
// Legacy exports are keyed only by client. Returns the number assigned.
func assignInvoiceIDs(invoices []commission.Invoice) int {
	assigned := 0
	for i := range invoices {
		if invoices[i].InvoiceID == "" {
			invoices[i].InvoiceID = commission.InvoiceID(uuid.NewString())
			assigned++
		}
	}
	return assigned
}

func loadSource(ctx context.Context, path string) ([]commission.Invoice, error) {
	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read export: %w", err)
		}
		var invoices []commission.Invoice
		if err := json.Unmarshal(data, &invoices); err != nil {
			return nil, fmt.Errorf("failed to parse export: %w", err)
		}
		return invoices, nil
	}

	source, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}
	defer source.Close()
	return source.LoadInvoices(ctx)
}
