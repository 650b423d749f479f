package commission_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/commission/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared across the package's test files.

// testInvoice builds an unpaid invoice with OriginalCommission derived the
// upstream way: base * percentage / 100.
func testInvoice(client string, base, pct float64, daysToPay int) commission.Invoice {
	baseDec := decimal.NewFromFloat(base)
	pctDec := decimal.NewFromFloat(pct)
	issued := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	return commission.Invoice{
		InvoiceID:          commission.InvoiceID(client + "-inv"),
		ClientID:           commission.ClientID(client),
		GrossValue:         baseDec.Mul(decimal.NewFromInt(10)),
		NetValue:           baseDec.Mul(decimal.NewFromInt(9)),
		BaseCommission:     baseDec,
		Percentage:         pctDec,
		OriginalCommission: baseDec.Mul(pctDec).Div(decimal.NewFromInt(100)),
		IssuedAt:           issued,
		ExpectedPaymentAt:  issued.AddDate(0, 0, 30),
		PaymentDeadline:    issued.AddDate(0, 0, 90),
		DaysToPay:          daysToPay,
	}
}

// paidOn marks the invoice collected at t.
func paidOn(inv commission.Invoice, t time.Time) commission.Invoice {
	inv.Paid = true
	inv.PaidAt = &t
	inv.IssuedAt = t.AddDate(0, 0, -inv.DaysToPay)
	return inv
}

// fixedEngine builds an engine over an in-memory store with a pinned clock.
func fixedEngine(now time.Time, invoices ...commission.Invoice) *commission.Engine {
	engine := commission.NewEngine(store.NewMemory(invoices...))
	engine.Now = func() time.Time { return now }
	return engine
}

func mid(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

var aug15 = mid(2026, time.August)

// failingSource always errors.
type failingSource struct{}

func (failingSource) LoadInvoices(context.Context) ([]commission.Invoice, error) {
	return nil, errors.New("disk on fire")
}

// panicSource simulates an internal bug below the operation boundary.
type panicSource struct{}

func (panicSource) LoadInvoices(context.Context) ([]commission.Invoice, error) {
	panic("corrupted snapshot")
}

// =============================================================================
// MONTH RESOLUTION AND FILTERING
// =============================================================================

func TestComputeMonth_DefaultsToPreviousMonth(t *testing.T) {
	// GIVEN: Today is mid-August, one invoice collected in July
	// WHEN: Computing with an empty target
	// THEN: The report covers July (arrears)

	inv := paidOn(testInvoice("acme", 1000, 10, 30), mid(2026, time.July))
	engine := fixedEngine(aug15, inv)

	rep, err := engine.ComputeMonth(context.Background(), commission.Target{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Month != "2026-07" {
		t.Errorf("report month = %s, want 2026-07", rep.Month)
	}
	if rep.InvoiceCount != 1 {
		t.Errorf("invoice count = %d, want 1", rep.InvoiceCount)
	}
}

func TestComputeMonth_FiltersByCollectionDateNotIssueDate(t *testing.T) {
	// GIVEN: One invoice issued in June but collected in July, one issued
	//        in July but unpaid, one collected in August
	// WHEN: Computing the July report
	// THEN: Only the July collection counts

	collected := paidOn(testInvoice("in-scope", 1000, 10, 30), mid(2026, time.July))

	unpaid := testInvoice("unpaid", 1000, 10, 0)
	unpaid.IssuedAt = mid(2026, time.July)

	nextMonth := paidOn(testInvoice("too-late", 1000, 10, 30), mid(2026, time.August))

	engine := fixedEngine(aug15, collected, unpaid, nextMonth)
	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.InvoiceCount != 1 {
		t.Fatalf("invoice count = %d, want 1", rep.InvoiceCount)
	}
	if len(rep.Clients) != 1 || rep.Clients[0].ClientID != "in-scope" {
		t.Errorf("clients = %+v, want only in-scope", rep.Clients)
	}
}

func TestComputeMonth_EmptyMonthIsNotAnError(t *testing.T) {
	// GIVEN: No invoices at all
	// WHEN: Computing a month
	// THEN: Zero-valued report with a single informational alert

	engine := fixedEngine(aug15)
	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rep.GrossCommission.IsZero() || !rep.NetCommission.IsZero() {
		t.Errorf("expected zeroed totals, got gross=%s net=%s", rep.GrossCommission, rep.NetCommission)
	}
	if len(rep.Alerts) != 1 || rep.Alerts[0] != "no paid invoices found for 2026-07" {
		t.Errorf("alerts = %v", rep.Alerts)
	}
	if len(rep.Clients) != 0 {
		t.Errorf("clients = %v, want empty", rep.Clients)
	}
}

// =============================================================================
// DEDUCTION ARITHMETIC
// =============================================================================

func TestComputeMonth_DeductionIdentities(t *testing.T) {
	// GIVEN: A month mixing discounted and undiscounted invoices
	// WHEN: Aggregating
	// THEN: total = gross * 6.5% and net + total = gross, exactly

	invoices := []commission.Invoice{
		paidOn(testInvoice("a", 1000, 10, 40), mid(2026, time.July)),  // eligible: 85
		paidOn(testInvoice("b", 2000, 12.5, 20), mid(2026, time.July)), // keeps 250
		paidOn(testInvoice("c", 333.33, 7, 45), mid(2026, time.July)),  // eligible, awkward decimals
	}
	engine := fixedEngine(aug15, invoices...)

	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate := decimal.NewFromFloat(0.065)
	if !rep.TotalDiscount.Equal(rep.GrossCommission.Mul(rate)) {
		t.Errorf("total discount %s != gross %s * 6.5%%", rep.TotalDiscount, rep.GrossCommission)
	}
	if !rep.NetCommission.Add(rep.TotalDiscount).Equal(rep.GrossCommission) {
		t.Errorf("net %s + total %s != gross %s", rep.NetCommission, rep.TotalDiscount, rep.GrossCommission)
	}
	if !rep.TotalDiscount.Equal(rep.HealthDiscount.Add(rep.ReserveDiscount)) {
		t.Errorf("total %s != health %s + reserve %s", rep.TotalDiscount, rep.HealthDiscount, rep.ReserveDiscount)
	}
}

func TestComputeMonth_MixedDiscountAggregation(t *testing.T) {
	// GIVEN: One eligible invoice (1000 base, 10%, 40 days) and one
	//        ineligible (1000 base, 10%, 20 days)
	// WHEN: Aggregating
	// THEN: gross = 85 + 100; the discount breakdown counts one invoice
	//       saving 15

	invoices := []commission.Invoice{
		paidOn(testInvoice("fast", 1000, 10, 20), mid(2026, time.July)),
		paidOn(testInvoice("window", 1000, 10, 40), mid(2026, time.July)),
	}
	engine := fixedEngine(aug15, invoices...)

	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rep.GrossCommission.Equal(decimal.NewFromInt(185)) {
		t.Errorf("gross = %s, want 185", rep.GrossCommission)
	}
	if rep.AutoDiscountCount != 1 {
		t.Errorf("auto discount count = %d, want 1", rep.AutoDiscountCount)
	}
	if !rep.AutoDiscountTotal.Equal(decimal.NewFromInt(15)) {
		t.Errorf("auto discount total = %s, want 15", rep.AutoDiscountTotal)
	}
}

func TestComputeMonth_Idempotent(t *testing.T) {
	// Two passes over the same data produce identical reports.
	invoices := []commission.Invoice{
		paidOn(testInvoice("a", 1000, 10, 40), mid(2026, time.July)),
		paidOn(testInvoice("b", 500, 8, 70), mid(2026, time.July)),
	}
	engine := fixedEngine(aug15, invoices...)

	first, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ between passes:\n%+v\n%+v", first, second)
	}
}

// =============================================================================
// CLIENT SUMMARIES
// =============================================================================

func TestComputeMonth_ClientSummaries(t *testing.T) {
	// GIVEN: Two clients, one with two invoices at 30 and 40 days to pay
	// WHEN: Aggregating
	// THEN: Summaries are sorted by client id with a 35-day average

	invoices := []commission.Invoice{
		paidOn(testInvoice("zeta", 1000, 10, 30), mid(2026, time.July)),
		paidOn(testInvoice("alpha", 1000, 10, 30), mid(2026, time.July)),
		paidOn(testInvoice("alpha", 1000, 10, 40), mid(2026, time.July)),
	}
	engine := fixedEngine(aug15, invoices...)

	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Clients) != 2 {
		t.Fatalf("client count = %d, want 2", len(rep.Clients))
	}
	if rep.Clients[0].ClientID != "alpha" || rep.Clients[1].ClientID != "zeta" {
		t.Errorf("clients out of order: %+v", rep.Clients)
	}

	alpha := rep.Clients[0]
	if alpha.InvoiceCount != 2 {
		t.Errorf("alpha invoice count = %d, want 2", alpha.InvoiceCount)
	}
	if !alpha.AvgDaysToPay.Equal(decimal.NewFromInt(35)) {
		t.Errorf("alpha avg days = %s, want 35", alpha.AvgDaysToPay)
	}
	// 100 (30 days, ineligible) + 85 (40 days, eligible)
	if !alpha.TotalCommission.Equal(decimal.NewFromInt(185)) {
		t.Errorf("alpha commission = %s, want 185", alpha.TotalCommission)
	}
}

// =============================================================================
// ALERTS
// =============================================================================

func TestComputeMonth_Alerts(t *testing.T) {
	// GIVEN: A lost commission, a discounted invoice, a late payer, and a
	//        zero days-to-pay invoice
	// WHEN: Aggregating
	// THEN: All four alerts fire, in a stable order

	lost := paidOn(testInvoice("lost", 1000, 10, 95), mid(2026, time.July))
	lost.CommissionLost = true
	lost.CommissionLostReason = "paid past deadline"

	discounted := paidOn(testInvoice("window", 1000, 10, 40), mid(2026, time.July))
	fresh := paidOn(testInvoice("fresh", 1000, 10, 0), mid(2026, time.July))

	engine := fixedEngine(aug15, lost, discounted, fresh)
	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"1 invoice(s) with commission lost",
		"1 invoice(s) received the automatic 15% discount, totaling 15.00",
		"1 invoice(s) paid after 60 days",
		"1 invoice(s) with no recorded days to pay (possible new clients)",
	}
	if !reflect.DeepEqual(rep.Alerts, want) {
		t.Errorf("alerts = %v, want %v", rep.Alerts, want)
	}
}

// =============================================================================
// FAILURE BOUNDARY
// =============================================================================

func TestComputeMonth_InvalidMonthKey(t *testing.T) {
	engine := fixedEngine(aug15)

	_, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "July 2026"})
	if err == nil {
		t.Fatal("expected error for malformed month key")
	}
	if !commission.IsClientError(err) {
		t.Errorf("expected client error, got %v", err)
	}
	var ce *commission.ComputeError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ComputeError, got %T", err)
	}
	if ce.Month != "July 2026" {
		t.Errorf("error month = %q, want the rejected input", ce.Month)
	}
}

func TestComputeMonth_SourceFailure(t *testing.T) {
	engine := commission.NewEngine(failingSource{})
	engine.Now = func() time.Time { return aug15 }

	_, err := engine.ComputeMonth(context.Background(), commission.Target{})
	if err == nil {
		t.Fatal("expected error from failing source")
	}
	if !errors.Is(err, commission.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if commission.IsClientError(err) {
		t.Error("source failure must not be a client error")
	}
}

func TestComputeMonth_PanicBecomesError(t *testing.T) {
	// A panic below the operation boundary surfaces as *ComputeError,
	// never as a crash.
	engine := commission.NewEngine(panicSource{})
	engine.Now = func() time.Time { return aug15 }

	rep, err := engine.ComputeMonth(context.Background(), commission.Target{Month: "2026-07"})
	if err == nil {
		t.Fatal("expected error from panicking source")
	}
	if rep != nil {
		t.Errorf("report must be nil on failure, got %+v", rep)
	}
	var ce *commission.ComputeError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ComputeError, got %T", err)
	}
	if ce.Month != "2026-07" {
		t.Errorf("error month = %q, want 2026-07", ce.Month)
	}
}
