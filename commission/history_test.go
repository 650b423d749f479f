package commission_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
)

func TestHistory_WindowWalksBackwardAcrossYears(t *testing.T) {
	// GIVEN: Today is February 2026; collections in Dec 2025, Jan and Feb 2026
	// WHEN: Asking for a 3-month window
	// THEN: Slices come back most recent first, crossing the year boundary

	today := mid(2026, time.February)
	engine := fixedEngine(today,
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)),
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)),
	)

	hist, err := engine.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hist.Months) != 3 {
		t.Fatalf("window length = %d, want 3", len(hist.Months))
	}
	want := []string{"2026-02", "2026-01", "2025-12"}
	for i, m := range hist.Months {
		if m.Month != want[i] {
			t.Errorf("months[%d] = %s, want %s", i, m.Month, want[i])
		}
		if m.InvoiceCount != 1 {
			t.Errorf("months[%d] invoice count = %d, want 1", i, m.InvoiceCount)
		}
	}
}

func TestHistory_TrendComparesTwoLatestMonths(t *testing.T) {
	// GIVEN: 1000 commission collected in January, 1200 in February
	// WHEN: Asking for history in February
	// THEN: Trend is +20% regardless of the statutory deduction factor

	today := mid(2026, time.February)
	engine := fixedEngine(today,
		paidOn(testInvoice("a", 10000, 10, 30), time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		paidOn(testInvoice("a", 12000, 10, 30), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)),
	)

	hist, err := engine.History(context.Background(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hist.TrendPercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("trend = %s, want 20", hist.TrendPercent)
	}
}

func TestHistory_TrendZeroWhenPreviousMonthEmpty(t *testing.T) {
	// Division guard: an empty previous month yields trend 0, not a panic.
	today := mid(2026, time.February)
	engine := fixedEngine(today,
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)),
	)

	hist, err := engine.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hist.TrendPercent.IsZero() {
		t.Errorf("trend = %s, want 0", hist.TrendPercent)
	}
}

func TestHistory_TotalsAndAverage(t *testing.T) {
	today := mid(2026, time.February)
	engine := fixedEngine(today,
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		paidOn(testInvoice("a", 1000, 10, 30), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)),
	)

	hist, err := engine.History(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum decimal.Decimal
	for _, m := range hist.Months {
		sum = sum.Add(m.NetCommission)
	}
	if !hist.TotalNet.Equal(sum) {
		t.Errorf("total %s != sum of slices %s", hist.TotalNet, sum)
	}
	if !hist.AverageNet.Equal(sum.Div(decimal.NewFromInt(4))) {
		t.Errorf("average %s != total/4", hist.AverageNet)
	}
}

func TestHistory_DefaultWindow(t *testing.T) {
	engine := fixedEngine(mid(2026, time.August))

	hist, err := engine.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.Months) != commission.DefaultHistoryMonths {
		t.Errorf("window length = %d, want %d", len(hist.Months), commission.DefaultHistoryMonths)
	}
}
