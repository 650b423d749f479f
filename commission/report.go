/*
report.go - Composed report with executive summary

PURPOSE:
  Assembles the three engines into one structure for a payroll run:
  the target month's aggregation, the running month's projection, and a
  fixed trailing 6-month history, topped with an executive summary and a
  qualitative status label.

STATUS LABEL:
  trend > 10 and month net above historical average -> "excellent growth"
  trend > 5                                         -> "good/moderate growth"
  trend > -5                                        -> "stable"
  otherwise                                         -> "declining, needs attention"
*/
package commission

import (
	"context"

	"github.com/shopspring/decimal"
)

// ComposerHistoryMonths is the fixed trailing window the composer uses.
const ComposerHistoryMonths = 6

// Status labels for the executive summary.
const (
	StatusExcellent = "excellent growth"
	StatusGood      = "good/moderate growth"
	StatusStable    = "stable"
	StatusDeclining = "declining, needs attention"
)

// ExecutiveSummary condenses the composed report into headline numbers.
type ExecutiveSummary struct {
	NetCommission     decimal.Decimal
	ProjectedNet      decimal.Decimal
	TrendPercent      decimal.Decimal
	HistoricalAverage decimal.Decimal
	Status            string
}

// Report is the full composed result.
type Report struct {
	Month      *MonthlyReport
	Projection *Projection
	History    *History
	Summary    ExecutiveSummary
}

// MonthlyReport composes the target month's aggregation, the current-month
// projection, and a trailing 6-month history over a single snapshot.
func (e *Engine) MonthlyReport(ctx context.Context, target Target) (rep *Report, err error) {
	const op = "monthly_report"

	today := e.today()
	month, rerr := target.Resolve(today)
	if rerr != nil {
		return nil, fail(op, target.Month, rerr)
	}
	defer e.guard(op, month.String(), &err)

	invoices, serr := e.snapshot(ctx)
	if serr != nil {
		return nil, fail(op, month.String(), serr)
	}

	monthly := aggregateMonth(invoices, month)
	projection := projectMonth(invoices, MonthOf(today), today)
	history := collectHistory(invoices, MonthOf(today), ComposerHistoryMonths)

	return &Report{
		Month:      monthly,
		Projection: projection,
		History:    history,
		Summary:    summarize(monthly, projection, history),
	}, nil
}

func summarize(monthly *MonthlyReport, projection *Projection, history *History) ExecutiveSummary {
	return ExecutiveSummary{
		NetCommission:     monthly.NetCommission,
		ProjectedNet:      projection.NetProjection,
		TrendPercent:      history.TrendPercent,
		HistoricalAverage: history.AverageNet,
		Status:            statusLabel(history.TrendPercent, monthly.NetCommission, history.AverageNet),
	}
}

func statusLabel(trend, net, average decimal.Decimal) string {
	ten := decimal.NewFromInt(10)
	five := decimal.NewFromInt(5)
	switch {
	case trend.GreaterThan(ten) && net.GreaterThan(average):
		return StatusExcellent
	case trend.GreaterThan(five):
		return StatusGood
	case trend.GreaterThan(five.Neg()):
		return StatusStable
	default:
		return StatusDeclining
	}
}
