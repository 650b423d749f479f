/*
aggregate.go - Monthly arrears aggregation

PURPOSE:
  Builds the monthly commission report: filter the snapshot to invoices
  COLLECTED in the target month (actual payment date, not issue date),
  recalculate every commission through the discount rule, and roll up
  totals, per-client summaries, and alerts.

ARREARS SEMANTICS:
  "Pay for last month's collections." With no explicit target the report
  covers the month preceding today, wrapping December -> January across
  the year boundary.

AGGREGATE DEDUCTIONS:
  gross   = sum of final commissions
  health  = gross * 4%
  reserve = gross * 2.5%
  net     = gross - (health + reserve)
  These are aggregate-level statutory rates, distinct from the
  per-invoice 15% automatic discount applied inside FinalCommission.

EMPTY MONTHS:
  A month with no paid invoices yields a zero-valued report with a single
  informational alert. It is not an error.
*/
package commission

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// MonthlyReport is the derived, ephemeral result of one aggregation pass.
// Recomputed from scratch on every call; never cached.
type MonthlyReport struct {
	Month        string
	InvoiceCount int

	GrossCommission decimal.Decimal
	HealthDiscount  decimal.Decimal
	ReserveDiscount decimal.Decimal
	TotalDiscount   decimal.Decimal
	NetCommission   decimal.Decimal

	// AutoDiscountCount and AutoDiscountTotal break down the per-invoice
	// automatic 15% discount across the month.
	AutoDiscountCount int
	AutoDiscountTotal decimal.Decimal

	Clients []ClientSummary
	Alerts  []string
}

// ClientSummary rolls up one client's invoices for the month.
// Numeric fields are rounded to 2 decimal places.
type ClientSummary struct {
	ClientID          ClientID
	TotalCommission   decimal.Decimal
	InvoiceCount      int
	TotalGrossValue   decimal.Decimal
	TotalAutoDiscount decimal.Decimal
	AvgDaysToPay      decimal.Decimal
}

// =============================================================================
// PUBLIC OPERATION
// =============================================================================

// ComputeMonth builds the arrears report for the resolved target month.
func (e *Engine) ComputeMonth(ctx context.Context, target Target) (rep *MonthlyReport, err error) {
	const op = "compute_month"

	month, rerr := target.Resolve(e.today())
	if rerr != nil {
		return nil, fail(op, target.Month, rerr)
	}
	defer e.guard(op, month.String(), &err)

	invoices, serr := e.snapshot(ctx)
	if serr != nil {
		return nil, fail(op, month.String(), serr)
	}
	return aggregateMonth(invoices, month), nil
}

// =============================================================================
// AGGREGATION PASS (pure)
// =============================================================================

// aggregateMonth computes the report for one month over an invoice snapshot.
func aggregateMonth(invoices []Invoice, month Month) *MonthlyReport {
	rep := &MonthlyReport{
		Month:             month.String(),
		GrossCommission:   decimal.Zero,
		HealthDiscount:    decimal.Zero,
		ReserveDiscount:   decimal.Zero,
		TotalDiscount:     decimal.Zero,
		NetCommission:     decimal.Zero,
		AutoDiscountTotal: decimal.Zero,
		Clients:           []ClientSummary{},
	}

	var matched []Invoice
	for _, inv := range invoices {
		if inv.PaidIn(month) {
			matched = append(matched, inv)
		}
	}

	if len(matched) == 0 {
		rep.Alerts = []string{fmt.Sprintf("no paid invoices found for %s", month)}
		return rep
	}

	var (
		lostCount      int
		lateCount      int
		newClientCount int
	)
	perClient := make(map[ClientID]*clientAccumulator)

	for _, inv := range matched {
		final := FinalCommission(inv)
		rep.GrossCommission = rep.GrossCommission.Add(final)
		rep.InvoiceCount++

		if AutoDiscountEligible(inv) {
			rep.AutoDiscountCount++
			rep.AutoDiscountTotal = rep.AutoDiscountTotal.Add(DiscountApplied(inv))
		}
		if inv.CommissionLost {
			lostCount++
		}
		if inv.DaysToPay > LatePaymentDays {
			lateCount++
		}
		if inv.DaysToPay == 0 {
			newClientCount++
		}

		acc, ok := perClient[inv.ClientID]
		if !ok {
			acc = &clientAccumulator{}
			perClient[inv.ClientID] = acc
		}
		acc.add(inv, final)
	}

	rep.HealthDiscount = rep.GrossCommission.Mul(HealthDiscountRate)
	rep.ReserveDiscount = rep.GrossCommission.Mul(ReserveDiscountRate)
	rep.TotalDiscount = rep.HealthDiscount.Add(rep.ReserveDiscount)
	rep.NetCommission = rep.GrossCommission.Sub(rep.TotalDiscount)

	rep.Clients = summarizeClients(perClient)
	rep.Alerts = monthlyAlerts(lostCount, rep.AutoDiscountCount, rep.AutoDiscountTotal, lateCount, newClientCount)
	return rep
}

// clientAccumulator collects one client's month before rounding.
type clientAccumulator struct {
	commission   decimal.Decimal
	grossValue   decimal.Decimal
	autoDiscount decimal.Decimal
	count        int
	daysToPaySum int
}

func (a *clientAccumulator) add(inv Invoice, final decimal.Decimal) {
	a.commission = a.commission.Add(final)
	a.grossValue = a.grossValue.Add(inv.GrossValue)
	if AutoDiscountEligible(inv) {
		a.autoDiscount = a.autoDiscount.Add(DiscountApplied(inv))
	}
	a.count++
	a.daysToPaySum += inv.DaysToPay
}

func summarizeClients(perClient map[ClientID]*clientAccumulator) []ClientSummary {
	summaries := make([]ClientSummary, 0, len(perClient))
	for id, acc := range perClient {
		avg := decimal.NewFromInt(int64(acc.daysToPaySum)).
			Div(decimal.NewFromInt(int64(acc.count)))
		summaries = append(summaries, ClientSummary{
			ClientID:          id,
			TotalCommission:   round2(acc.commission),
			InvoiceCount:      acc.count,
			TotalGrossValue:   round2(acc.grossValue),
			TotalAutoDiscount: round2(acc.autoDiscount),
			AvgDaysToPay:      round2(avg),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ClientID < summaries[j].ClientID
	})
	return summaries
}

// monthlyAlerts builds the ordered alert list. Each alert is emitted only
// when its condition is non-empty.
func monthlyAlerts(lost, autoCount int, autoTotal decimal.Decimal, late, newClients int) []string {
	var alerts []string
	if lost > 0 {
		alerts = append(alerts, fmt.Sprintf("%d invoice(s) with commission lost", lost))
	}
	if autoCount > 0 {
		alerts = append(alerts, fmt.Sprintf(
			"%d invoice(s) received the automatic 15%% discount, totaling %s",
			autoCount, autoTotal.StringFixed(2)))
	}
	if late > 0 {
		alerts = append(alerts, fmt.Sprintf("%d invoice(s) paid after %d days", late, LatePaymentDays))
	}
	if newClients > 0 {
		// 0 days-to-pay conflates same-day payment with absent data; the
		// alert wording stays hedged on purpose.
		alerts = append(alerts, fmt.Sprintf("%d invoice(s) with no recorded days to pay (possible new clients)", newClients))
	}
	return alerts
}
