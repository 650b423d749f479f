/*
projection.go - Current-month run-rate projection

PURPOSE:
  Extrapolates the running month's commission to a full-month forecast.
  Unlike the monthly aggregation, the projection filters by ISSUE date:
  it asks "what has been sold this month so far", not "what was collected".

ARITHMETIC:
  days_elapsed = today - month_start + 1
  run_rate     = commission_to_date / days_elapsed
  gross        = run_rate * days_in_month
  net          = gross * (1 - 4% - 2.5%)

COMPLETION LIKELIHOOD:
  current / gross * 100, capped at 100. The cap can only bind on
  partial-month edge cases (current exceeding its own extrapolation is
  otherwise arithmetically impossible); it stays as a guard.
*/
package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Projection is the full-month forecast derived from the running month.
type Projection struct {
	Month        string
	InvoiceCount int

	DaysElapsed   int
	DaysInMonth   int
	DaysRemaining int

	CurrentCommission decimal.Decimal
	RunRate           decimal.Decimal
	GrossProjection   decimal.Decimal
	TotalDiscount     decimal.Decimal
	NetProjection     decimal.Decimal

	// CompletionLikelihood is current/projection as a percentage, in [0, 100].
	CompletionLikelihood decimal.Decimal
}

// ProjectCurrentMonth extrapolates commission issued so far this month to
// a full-month forecast. An empty month yields zeroed fields, not an error.
func (e *Engine) ProjectCurrentMonth(ctx context.Context) (proj *Projection, err error) {
	const op = "project_current_month"

	today := e.today()
	month := MonthOf(today)
	defer e.guard(op, month.String(), &err)

	invoices, serr := e.snapshot(ctx)
	if serr != nil {
		return nil, fail(op, month.String(), serr)
	}
	return projectMonth(invoices, month, today), nil
}

// projectMonth computes the forecast for the month containing today.
func projectMonth(invoices []Invoice, month Month, today time.Time) *Projection {
	daysInMonth := month.Days()
	daysElapsed := today.Day() // today - month start + 1
	proj := &Projection{
		Month:                month.String(),
		DaysElapsed:          daysElapsed,
		DaysInMonth:          daysInMonth,
		DaysRemaining:        daysInMonth - daysElapsed,
		CurrentCommission:    decimal.Zero,
		RunRate:              decimal.Zero,
		GrossProjection:      decimal.Zero,
		TotalDiscount:        decimal.Zero,
		NetProjection:        decimal.Zero,
		CompletionLikelihood: decimal.Zero,
	}

	current := decimal.Zero
	for _, inv := range invoices {
		if !inv.IssuedIn(month) || inv.IssuedAt.After(today) {
			continue
		}
		current = current.Add(FinalCommission(inv))
		proj.InvoiceCount++
	}
	if proj.InvoiceCount == 0 {
		return proj
	}

	proj.CurrentCommission = current
	proj.RunRate = current.Div(decimal.NewFromInt(int64(daysElapsed)))
	proj.GrossProjection = proj.RunRate.Mul(decimal.NewFromInt(int64(daysInMonth)))
	proj.TotalDiscount = proj.GrossProjection.Mul(HealthDiscountRate.Add(ReserveDiscountRate))
	proj.NetProjection = proj.GrossProjection.Sub(proj.TotalDiscount)

	if proj.GrossProjection.IsPositive() {
		likelihood := current.Div(proj.GrossProjection).Mul(hundred)
		if likelihood.GreaterThan(hundred) {
			likelihood = hundred
		}
		proj.CompletionLikelihood = round2(likelihood)
	}
	return proj
}
