/*
errors.go - Centralized error types for the commission engine

PURPOSE:
  All error types in one place. Every public engine operation returns an
  explicit (result, error) pair; internal failures - including panics in
  the transformation pass - are caught at the operation boundary and
  converted to a *ComputeError carrying the attempted month.

NOT ERRORS:
  An empty month (no paid invoices, or no issued invoices for the
  projection) is a valid zero-valued report with an informational alert,
  never an error.

USAGE:
  report, err := engine.ComputeMonth(ctx, target)
  if err != nil {
      var ce *commission.ComputeError
      if errors.As(err, &ce) {
          fmt.Println("failed for month", ce.Month)
      }
  }
*/
package commission

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSourceUnavailable is returned when the invoice snapshot cannot
	// be loaded from the repository.
	ErrSourceUnavailable = errors.New("invoice source unavailable")

	// ErrInvalidMonth is returned for a malformed month key.
	ErrInvalidMonth = errors.New("invalid month")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ComputeError wraps any failure inside a public engine operation.
// Month is the "YYYY-MM" key being processed when known, "" otherwise.
type ComputeError struct {
	Op    string // "compute_month", "project_current_month", "history", "monthly_report"
	Month string
	Err   error
}

func (e *ComputeError) Error() string {
	if e.Month != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Month, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// IsClientError reports whether the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidMonth)
}
