/*
engine.go - Public entry points and failure boundary

PURPOSE:
  The Engine is the single public surface of the commission core. It owns
  the invoice snapshot discipline: every operation loads the full invoice
  set from the InvoiceSource exactly once, then runs pure functions over
  that snapshot. Nothing is cached between calls; repeated calls recompute
  from whatever the repository returns.

OPERATIONS:
  ComputeMonth         Monthly arrears aggregation
  ProjectCurrentMonth  Run-rate projection for the running month
  History              Rolling month-over-month trend
  MonthlyReport        Composed report (month + projection + history)

FAILURE BOUNDARY:
  Each operation converts load failures and internal panics into a
  *ComputeError before returning. No panic escapes the Engine.

SEE ALSO:
  - store/sqlite: SQLite-backed InvoiceSource
  - commission/store: In-memory InvoiceSource for tests
*/
package commission

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// INVOICE SOURCE - The one external capability the engine depends on
// =============================================================================

// InvoiceSource supplies the full invoice snapshot. The engine filters in
// memory; no pagination contract exists.
type InvoiceSource interface {
	LoadInvoices(ctx context.Context) ([]Invoice, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes commission reports over an InvoiceSource snapshot.
// Now is injectable for deterministic tests; nil means time.Now.
type Engine struct {
	Source InvoiceSource
	Now    func() time.Time
}

func NewEngine(source InvoiceSource) *Engine {
	return &Engine{Source: source}
}

func (e *Engine) today() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

// snapshot loads the invoice set once for the current operation.
func (e *Engine) snapshot(ctx context.Context) ([]Invoice, error) {
	invoices, err := e.Source.LoadInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return invoices, nil
}

// guard converts a panic inside an operation into a *ComputeError.
// Call via: defer e.guard(op, month, &err)
func (e *Engine) guard(op, month string, errp *error) {
	if r := recover(); r != nil {
		*errp = &ComputeError{Op: op, Month: month, Err: fmt.Errorf("internal failure: %v", r)}
	}
}

// fail wraps err into a *ComputeError unless it already is one.
func fail(op, month string, err error) error {
	var ce *ComputeError
	if errors.As(err, &ce) {
		return err
	}
	return &ComputeError{Op: op, Month: month, Err: err}
}
