/*
Package sqlite provides a SQLite-backed invoice repository.

PURPOSE:
  Implements commission.InvoiceSource plus the write operations the
  presentation and migration layers need. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLE:
  invoices: One row per sale/commission event. Monetary columns are
  stored as TEXT so decimal values round-trip exactly; dates as RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The engine itself is a pure
  read-then-compute pass, so the repository is the only locking site.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  repo, err := sqlite.New("./data/commissions.db")
  if err != nil {
      log.Fatal(err)
  }
  defer repo.Close()

  engine := commission.NewEngine(repo)

SEE ALSO:
  - commission/engine.go: InvoiceSource interface
  - commission/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
)

// Store implements the invoice repository over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		gross_value TEXT NOT NULL,
		net_value TEXT NOT NULL,
		base_commission TEXT NOT NULL,
		percentage TEXT NOT NULL,
		original_commission TEXT NOT NULL,
		issued_at TEXT NOT NULL,
		expected_payment_at TEXT,
		payment_deadline TEXT,
		paid_at TEXT,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		days_to_pay INTEGER NOT NULL DEFAULT 0,
		has_invoice_discount BOOLEAN NOT NULL DEFAULT FALSE,
		commission_lost BOOLEAN NOT NULL DEFAULT FALSE,
		commission_lost_reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_client
		ON invoices(client_id);

	-- Hot path: monthly filtering by collection date
	CREATE INDEX IF NOT EXISTS idx_invoices_paid_at
		ON invoices(paid_at) WHERE paid_at IS NOT NULL;

	-- Projection filtering by issue date
	CREATE INDEX IF NOT EXISTS idx_invoices_issued_at
		ON invoices(issued_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INVOICE SOURCE (commission.InvoiceSource interface)
// =============================================================================

// LoadInvoices returns the full invoice snapshot ordered by issue date.
func (s *Store) LoadInvoices(ctx context.Context) ([]commission.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, client_id, gross_value, net_value, base_commission, percentage,
		       original_commission, issued_at, expected_payment_at, payment_deadline,
		       paid_at, paid, days_to_pay, has_invoice_discount,
		       commission_lost, commission_lost_reason
		FROM invoices
		ORDER BY issued_at ASC, id ASC
	`
	return s.queryInvoices(ctx, query)
}

// GetInvoice returns one invoice by id, or nil if absent.
func (s *Store) GetInvoice(ctx context.Context, id commission.InvoiceID) (*commission.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, client_id, gross_value, net_value, base_commission, percentage,
		       original_commission, issued_at, expected_payment_at, payment_deadline,
		       paid_at, paid, days_to_pay, has_invoice_discount,
		       commission_lost, commission_lost_reason
		FROM invoices
		WHERE id = ?
	`
	invoices, err := s.queryInvoices(ctx, query, string(id))
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}
	return &invoices[0], nil
}

// =============================================================================
// WRITES (presentation / migration plumbing, not engine concerns)
// =============================================================================

// SaveInvoice inserts or replaces a single invoice.
func (s *Store) SaveInvoice(ctx context.Context, inv commission.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveInvoice(ctx, s.db, inv)
}

// SaveBatch inserts multiple invoices atomically.
func (s *Store) SaveBatch(ctx context.Context, invs []commission.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, inv := range invs {
		if err := s.saveInvoice(ctx, sqlTx, inv); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

// CountInvoices returns the number of stored invoices.
func (s *Store) CountInvoices(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invoices").Scan(&count)
	return count, err
}

// DeleteAll clears the invoices table. Used by scenario reloads and tests.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM invoices")
	return err
}

func (s *Store) saveInvoice(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, inv commission.Invoice) error {
	query := `
		INSERT OR REPLACE INTO invoices
		(id, client_id, gross_value, net_value, base_commission, percentage,
		 original_commission, issued_at, expected_payment_at, payment_deadline,
		 paid_at, paid, days_to_pay, has_invoice_discount,
		 commission_lost, commission_lost_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		string(inv.InvoiceID),
		string(inv.ClientID),
		inv.GrossValue.String(),
		inv.NetValue.String(),
		inv.BaseCommission.String(),
		inv.Percentage.String(),
		inv.OriginalCommission.String(),
		inv.IssuedAt.UTC().Format(time.RFC3339),
		nullTime(inv.ExpectedPaymentAt),
		nullTime(inv.PaymentDeadline),
		nullTimePtr(inv.PaidAt),
		inv.Paid,
		inv.DaysToPay,
		inv.HasInvoiceDiscount,
		inv.CommissionLost,
		nullString(inv.CommissionLostReason),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", inv.InvoiceID, err)
	}
	return nil
}

// =============================================================================
// SCANNING
// =============================================================================

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]commission.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []commission.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(rows *sql.Rows) (commission.Invoice, error) {
	var (
		inv                  commission.Invoice
		id, clientID         string
		gross, net           string
		base, pct, original  string
		issuedAt             string
		expectedAt, deadline sql.NullString
		paidAt, lostReason   sql.NullString
	)

	err := rows.Scan(&id, &clientID, &gross, &net, &base, &pct, &original,
		&issuedAt, &expectedAt, &deadline, &paidAt, &inv.Paid, &inv.DaysToPay,
		&inv.HasInvoiceDiscount, &inv.CommissionLost, &lostReason)
	if err != nil {
		return inv, fmt.Errorf("failed to scan invoice: %w", err)
	}

	inv.InvoiceID = commission.InvoiceID(id)
	inv.ClientID = commission.ClientID(clientID)
	inv.GrossValue = parseDecimal(gross)
	inv.NetValue = parseDecimal(net)
	inv.BaseCommission = parseDecimal(base)
	inv.Percentage = parseDecimal(pct)
	inv.OriginalCommission = parseDecimal(original)
	inv.IssuedAt = parseTime(issuedAt)
	if expectedAt.Valid {
		inv.ExpectedPaymentAt = parseTime(expectedAt.String)
	}
	if deadline.Valid {
		inv.PaymentDeadline = parseTime(deadline.String)
	}
	if paidAt.Valid {
		t := parseTime(paidAt.String)
		inv.PaidAt = &t
	}
	if lostReason.Valid {
		inv.CommissionLostReason = lostReason.String
	}
	return inv, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
