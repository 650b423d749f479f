package commission

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Calendar month, the unit of arrears aggregation
// =============================================================================

// Month identifies a calendar month. The zero value is invalid; construct
// via NewMonth, ParseMonth, or MonthOf.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// String returns the "YYYY-MM" key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first instant of the month (UTC).
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first day of the following month. The month interval is
// [Start, End); using the next month's start instead of "last day 23:59"
// keeps leap-February and 28/30/31-day months correct for free.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int {
	return int(m.End().Sub(m.Start()).Hours() / 24)
}

// Contains reports whether t falls within the month.
func (m Month) Contains(t time.Time) bool {
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Prev returns the preceding month, wrapping the year boundary.
func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// AddMonths returns the month n months after (or before, for negative n).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// =============================================================================
// TARGET RESOLUTION - Which month does a report request mean?
// =============================================================================

// Target selects the month for a report. Both fields are optional:
//   - Month set: used verbatim ("YYYY-MM")
//   - only Year set: December of that year
//   - neither set: the month preceding today (arrears payroll default)
type Target struct {
	Month string
	Year  int
}

// Resolve applies the arrears month-resolution policy against today.
func (t Target) Resolve(today time.Time) (Month, error) {
	switch {
	case t.Month != "":
		return ParseMonth(t.Month)
	case t.Year != 0:
		return NewMonth(t.Year, time.December), nil
	default:
		return MonthOf(today).Prev(), nil
	}
}
