/*
discount.go - Automatic discount eligibility and commission recalculation

PURPOSE:
  The per-invoice decision core. Two pure functions:
  - AutoDiscountEligible: does the 15% automatic discount apply?
  - FinalCommission: what is the invoice's payable commission?

THE RULE:
  An invoice earns the automatic 15% discount when payment landed in the
  35-45 day window (inclusive on both boundaries) AND no discount was
  already applied at invoice face value. The two discount kinds are
  mutually exclusive.

ORDER MATTERS:
  The discount is applied to the commission BASE before the percentage
  rate, not to the already-computed commission:

    final = base * (1 - 0.15) * (percentage / 100)

  base=1000, percentage=10, days_to_pay=40  ->  850 * 0.10 = 85

SEE ALSO:
  - aggregate.go: Applies these per invoice, then the aggregate-level
    health/reserve deductions (which are a separate concept)
*/
package commission

import "github.com/shopspring/decimal"

// =============================================================================
// RATES AND WINDOWS
// =============================================================================

// Inclusive days-to-pay window for the automatic discount.
const (
	AutoDiscountMinDays = 35
	AutoDiscountMaxDays = 45
)

// Payments beyond this many days raise the late-payment alert.
const LatePaymentDays = 60

var (
	// AutoDiscountRate is the per-invoice automatic discount (15%),
	// applied to the commission base.
	AutoDiscountRate = decimal.NewFromFloat(0.15)

	// HealthDiscountRate and ReserveDiscountRate are statutory
	// aggregate-level deductions on total gross commission. They are
	// unrelated to the per-invoice automatic discount.
	HealthDiscountRate  = decimal.NewFromFloat(0.04)
	ReserveDiscountRate = decimal.NewFromFloat(0.025)

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// =============================================================================
// ELIGIBILITY RULE
// =============================================================================

// AutoDiscountEligible reports whether the invoice qualifies for the
// automatic 15% commission discount. A foot-of-invoice discount always
// disqualifies; otherwise eligibility is DaysToPay in [35, 45].
func AutoDiscountEligible(inv Invoice) bool {
	if inv.HasInvoiceDiscount {
		return false
	}
	return inv.DaysToPay >= AutoDiscountMinDays && inv.DaysToPay <= AutoDiscountMaxDays
}

// =============================================================================
// RECALCULATION
// =============================================================================

// FinalCommission returns the payable commission for the invoice.
// Eligible invoices are recomputed from the base amounts; ineligible
// invoices keep their original commission unchanged.
func FinalCommission(inv Invoice) decimal.Decimal {
	if !AutoDiscountEligible(inv) {
		return inv.OriginalCommission
	}
	discountedBase := inv.BaseCommission.Mul(one.Sub(AutoDiscountRate))
	return discountedBase.Mul(inv.Percentage.Div(hundred))
}

// DiscountApplied returns OriginalCommission minus FinalCommission.
// Non-negative by construction: the discount only ever reduces.
func DiscountApplied(inv Invoice) decimal.Decimal {
	return inv.OriginalCommission.Sub(FinalCommission(inv))
}
