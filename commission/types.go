/*
Package commission provides the arrears commission calculation engine.

PURPOSE:
  This package contains the types and algorithms for computing monthly
  sales-commission payouts on an arrears basis: commission is paid in the
  month following the month the invoice was actually collected. The engine
  decides, per invoice, whether an automatic early-payment discount applies,
  derives the final commission, and aggregates results into monthly,
  projection, and trend reports.

KEY CONCEPTS IN THIS FILE (types.go):
  - Invoice: An immutable record of one sale/commission event
  - ClientID/InvoiceID: Type-safe identifiers
  - Decimal money: All monetary math uses decimal.Decimal

DESIGN PRINCIPLES:
  1. Immutability: The engine never mutates or persists invoices; it reads
     a snapshot once per calculation and computes from scratch.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
  3. Purity: Eligibility and recalculation are pure functions over Invoice.

USAGE:
  engine := commission.NewEngine(store)
  report, err := engine.ComputeMonth(ctx, commission.Target{Month: "2024-01"})

SEE ALSO:
  - discount.go: Eligibility rule and commission recalculation
  - aggregate.go: Monthly aggregation
  - projection.go: Current-month run-rate projection
  - history.go: Rolling month-over-month history
  - report.go: Composed report with executive summary
*/
package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClientID string
type InvoiceID string

// =============================================================================
// INVOICE - One sale/commission event
// =============================================================================

// Invoice is a single commission-bearing sale record. Monetary fields are
// non-negative decimals; PaidAt is nil until the invoice is collected.
//
// DaysToPay is computed upstream as the day count between IssuedAt and
// PaidAt. A value of 0 means either same-day payment or no recorded data
// (brand-new client); the two are deliberately not distinguished, matching
// how the payroll team reads the field.
type Invoice struct {
	ClientID  ClientID
	InvoiceID InvoiceID

	GrossValue         decimal.Decimal
	NetValue           decimal.Decimal
	BaseCommission     decimal.Decimal
	Percentage         decimal.Decimal // commission rate, 0-100
	OriginalCommission decimal.Decimal

	IssuedAt          time.Time
	ExpectedPaymentAt time.Time
	PaymentDeadline   time.Time
	PaidAt            *time.Time

	Paid      bool
	DaysToPay int

	// HasInvoiceDiscount marks a discount already granted at invoice face
	// value; it disqualifies the automatic commission discount.
	HasInvoiceDiscount bool

	// CommissionLost is set upstream when the commission is forfeited
	// (typically payment past the deadline).
	CommissionLost       bool
	CommissionLostReason string
}

// PaidIn reports whether the invoice was collected within the given month.
// Unpaid invoices never match.
func (inv Invoice) PaidIn(m Month) bool {
	if !inv.Paid || inv.PaidAt == nil {
		return false
	}
	return m.Contains(*inv.PaidAt)
}

// IssuedIn reports whether the invoice was issued within the given month.
func (inv Invoice) IssuedIn(m Month) bool {
	return m.Contains(inv.IssuedAt)
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
