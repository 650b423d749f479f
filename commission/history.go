/*
history.go - Rolling month-over-month history and trend

PURPOSE:
  Re-runs the monthly aggregation over a trailing window of months
  (current month inclusive, walking backward across year boundaries) and
  derives the month-over-month trend.

TREND:
  (latest_net - previous_net) / previous_net * 100, comparing the two
  most recent months. Defined as 0 when the previous month's net is zero
  or fewer than two months of history exist.
*/
package commission

import (
	"context"

	"github.com/shopspring/decimal"
)

// DefaultHistoryMonths is the window used when the caller does not ask
// for a specific depth.
const DefaultHistoryMonths = 12

// MonthHistory is one month's slice of the rolling history.
type MonthHistory struct {
	Month         string
	NetCommission decimal.Decimal
	InvoiceCount  int
	TotalDiscount decimal.Decimal
}

// History is the rolling window result, most recent month first.
type History struct {
	Months []MonthHistory

	// TrendPercent compares the latest month against the one before it,
	// rounded to 2 decimal places.
	TrendPercent decimal.Decimal

	AverageNet decimal.Decimal
	TotalNet   decimal.Decimal
}

// History aggregates the trailing numMonths months (current inclusive).
// numMonths <= 0 selects DefaultHistoryMonths.
func (e *Engine) History(ctx context.Context, numMonths int) (hist *History, err error) {
	const op = "history"

	if numMonths <= 0 {
		numMonths = DefaultHistoryMonths
	}
	current := MonthOf(e.today())
	defer e.guard(op, current.String(), &err)

	invoices, serr := e.snapshot(ctx)
	if serr != nil {
		return nil, fail(op, current.String(), serr)
	}
	return collectHistory(invoices, current, numMonths), nil
}

// collectHistory walks numMonths backward from current over one snapshot.
func collectHistory(invoices []Invoice, current Month, numMonths int) *History {
	hist := &History{
		Months:       make([]MonthHistory, 0, numMonths),
		TrendPercent: decimal.Zero,
		AverageNet:   decimal.Zero,
		TotalNet:     decimal.Zero,
	}

	month := current
	for i := 0; i < numMonths; i++ {
		rep := aggregateMonth(invoices, month)
		hist.Months = append(hist.Months, MonthHistory{
			Month:         rep.Month,
			NetCommission: rep.NetCommission,
			InvoiceCount:  rep.InvoiceCount,
			TotalDiscount: rep.TotalDiscount,
		})
		hist.TotalNet = hist.TotalNet.Add(rep.NetCommission)
		month = month.Prev()
	}

	if len(hist.Months) > 0 {
		hist.AverageNet = hist.TotalNet.Div(decimal.NewFromInt(int64(len(hist.Months))))
	}
	hist.TrendPercent = trendPercent(hist.Months)
	return hist
}

func trendPercent(months []MonthHistory) decimal.Decimal {
	if len(months) < 2 {
		return decimal.Zero
	}
	latest, previous := months[0].NetCommission, months[1].NetCommission
	if previous.IsZero() {
		return decimal.Zero
	}
	return round2(latest.Sub(previous).Div(previous).Mul(hundred))
}
