package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func migrationInvoice(id string) commission.Invoice {
	issued := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	paidAt := issued.AddDate(0, 0, 40)
	return commission.Invoice{
		InvoiceID:          commission.InvoiceID(id),
		ClientID:           "acme",
		GrossValue:         commission.MustParseDecimal("10000.50"),
		BaseCommission:     commission.MustParseDecimal("1000.05"),
		Percentage:         commission.MustParseDecimal("10"),
		OriginalCommission: commission.MustParseDecimal("100.01"),
		IssuedAt:           issued,
		PaidAt:             &paidAt,
		Paid:               true,
		DaysToPay:          40,
	}
}

// runMigration drives the migrate command with its flags pinned.
func runMigration(t *testing.T, from, to string, truncate bool) {
	migrateFrom, migrateTo, migrateTruncate = from, to, truncate
	t.Cleanup(func() { migrateFrom, migrateTo, migrateTruncate = "", "", false })
	migrateCmd.SetContext(context.Background())
	require.NoError(t, runMigrate(migrateCmd, nil))
}

func openStore(t *testing.T, path string) *sqlite.Store {
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// ID BACKFILL
// =============================================================================

func TestAssignInvoiceIDs(t *testing.T) {
	invoices := []commission.Invoice{
		migrationInvoice("keep-me"),
		migrationInvoice(""),
		migrationInvoice(""),
	}

	assigned := assignInvoiceIDs(invoices)

	assert.Equal(t, 2, assigned)
	assert.Equal(t, commission.InvoiceID("keep-me"), invoices[0].InvoiceID)
	assert.NotEmpty(t, invoices[1].InvoiceID)
	assert.NotEmpty(t, invoices[2].InvoiceID)
	assert.NotEqual(t, invoices[1].InvoiceID, invoices[2].InvoiceID)
}

// =============================================================================
// MIGRATION PATHS
// =============================================================================

func TestMigrate_CopiesBetweenDatabases(t *testing.T) {
	// GIVEN: A source database holding three invoices
	// WHEN: Migrating into an empty target
	// THEN: All three rows arrive with their fields intact

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")
	targetPath := filepath.Join(dir, "target.db")

	source := openStore(t, sourcePath)
	require.NoError(t, source.SaveBatch(context.Background(), []commission.Invoice{
		migrationInvoice("a"), migrationInvoice("b"), migrationInvoice("c"),
	}))

	runMigration(t, sourcePath, targetPath, false)

	target := openStore(t, targetPath)
	copied, err := target.LoadInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, copied, 3)
	assert.True(t, copied[0].OriginalCommission.Equal(commission.MustParseDecimal("100.01")))
	assert.Equal(t, 40, copied[0].DaysToPay)
}

func TestMigrate_JSONImportBackfillsMissingIDs(t *testing.T) {
	// GIVEN: A JSON export where one invoice carries no id
	// WHEN: Importing into a fresh database
	// THEN: Both rows land, and the id-less one got a fresh id

	dir := t.TempDir()
	exportPath := filepath.Join(dir, "invoices.json")
	targetPath := filepath.Join(dir, "target.db")

	export := []commission.Invoice{
		migrationInvoice("has-id"),
		migrationInvoice(""),
	}
	raw, err := json.Marshal(export)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(exportPath, raw, 0o644))

	runMigration(t, exportPath, targetPath, false)

	target := openStore(t, targetPath)
	count, err := target.CountInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	kept, err := target.GetInvoice(context.Background(), "has-id")
	require.NoError(t, err)
	require.NotNil(t, kept, "explicit ids must survive the import")

	imported, err := target.LoadInvoices(context.Background())
	require.NoError(t, err)
	for _, inv := range imported {
		assert.NotEmpty(t, inv.InvoiceID)
	}
}

func TestMigrate_TruncateReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")
	targetPath := filepath.Join(dir, "target.db")

	source := openStore(t, sourcePath)
	require.NoError(t, source.SaveInvoice(context.Background(), migrationInvoice("fresh")))

	target := openStore(t, targetPath)
	require.NoError(t, target.SaveInvoice(context.Background(), migrationInvoice("stale")))

	runMigration(t, sourcePath, targetPath, true)

	count, err := target.CountInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stale, err := target.GetInvoice(context.Background(), "stale")
	require.NoError(t, err)
	assert.Nil(t, stale, "truncate must drop pre-existing rows")
}

func TestMigrate_MissingSource(t *testing.T) {
	dir := t.TempDir()

	migrateFrom = filepath.Join(dir, "absent.json")
	migrateTo = filepath.Join(dir, "target.db")
	t.Cleanup(func() { migrateFrom, migrateTo = "", "" })

	err := runMigrate(migrateCmd, nil)
	require.Error(t, err)
}
