/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes the commission engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Reports:
    GET /api/reports/month       Monthly aggregation (?month=YYYY-MM or ?year=)
    GET /api/reports/projection  Current-month run-rate forecast
    GET /api/reports/history     Rolling trend window (?months=N)
    GET /api/reports/full        Composed report with executive summary

  Invoices:
    GET  /api/invoices           List the full invoice set
    POST /api/invoices           Record an invoice

  Scenarios:
    GET  /api/scenarios          List demo scenarios
    POST /api/scenarios/load     Replace the dataset with a scenario
    POST /api/scenarios/reset    Clear all invoices

ERROR HANDLING:
  Report failures surface as JSON carrying "error" and the attempted
  month; clients must check "error" before reading numeric fields.
  - 400: invalid month key, malformed request body
  - 500: repository or internal failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo dataset loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// InvoiceStore is the repository surface the API needs: the engine's
// read capability plus the write plumbing for recording and seeding.
type InvoiceStore interface {
	commission.InvoiceSource
	SaveInvoice(ctx context.Context, inv commission.Invoice) error
	SaveBatch(ctx context.Context, invs []commission.Invoice) error
	CountInvoices(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  InvoiceStore
	Engine *commission.Engine

	currentScenario string
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store InvoiceStore) *Handler {
	return &Handler{
		Store:  store,
		Engine: commission.NewEngine(store),
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetMonthlyReport returns the arrears aggregation for the target month.
// GET /api/reports/month?month=YYYY-MM&year=YYYY
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	target, ok := parseTarget(w, r)
	if !ok {
		return
	}

	rep, err := h.Engine.ComputeMonth(r.Context(), target)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyReportDTO(rep))
}

// GetProjection returns the current-month forecast.
// GET /api/reports/projection
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	proj, err := h.Engine.ProjectCurrentMonth(r.Context())
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(proj))
}

// GetHistory returns the rolling trend window. An explicit months
// parameter must be a positive integer; omitting it selects the engine's
// default window.
// GET /api/reports/history?months=N
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "months must be a positive integer", err)
			return
		}
		months = n
	}

	hist, err := h.Engine.History(r.Context(), months)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTO(hist))
}

// GetFullReport returns the composed report with executive summary.
// GET /api/reports/full?month=YYYY-MM
func (h *Handler) GetFullReport(w http.ResponseWriter, r *http.Request) {
	target, ok := parseTarget(w, r)
	if !ok {
		return
	}

	rep, err := h.Engine.MonthlyReport(r.Context(), target)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(rep))
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns the full invoice set.
// GET /api/invoices
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Store.LoadInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load invoices", err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTOs(invoices))
}

// CreateInvoice records a new invoice.
// POST /api/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required", nil)
		return
	}

	inv, err := fromCreateRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice", err)
		return
	}
	if err := h.Store.SaveInvoice(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save invoice", err)
		return
	}

	log.Info().
		Str("invoice_id", string(inv.InvoiceID)).
		Str("client_id", string(inv.ClientID)).
		Msg("invoice recorded")
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

func fromCreateRequest(req CreateInvoiceRequest) (commission.Invoice, error) {
	inv := commission.Invoice{
		InvoiceID:            commission.InvoiceID(req.InvoiceID),
		ClientID:             commission.ClientID(req.ClientID),
		GrossValue:           decimal.NewFromFloat(req.GrossValue),
		NetValue:             decimal.NewFromFloat(req.NetValue),
		BaseCommission:       decimal.NewFromFloat(req.BaseCommission),
		Percentage:           decimal.NewFromFloat(req.Percentage),
		OriginalCommission:   decimal.NewFromFloat(req.OriginalCommission),
		Paid:                 req.Paid,
		DaysToPay:            req.DaysToPay,
		HasInvoiceDiscount:   req.HasInvoiceDiscount,
		CommissionLost:       req.CommissionLost,
		CommissionLostReason: req.CommissionLostReason,
	}
	if inv.InvoiceID == "" {
		inv.InvoiceID = commission.InvoiceID(uuid.NewString())
	}

	var err error
	if inv.IssuedAt, err = parseDate(req.IssuedAt); err != nil {
		return inv, err
	}
	if req.ExpectedPaymentAt != "" {
		if inv.ExpectedPaymentAt, err = parseDate(req.ExpectedPaymentAt); err != nil {
			return inv, err
		}
	}
	if req.PaymentDeadline != "" {
		if inv.PaymentDeadline, err = parseDate(req.PaymentDeadline); err != nil {
			return inv, err
		}
	}
	if req.PaidAt != "" {
		t, err := parseDate(req.PaidAt)
		if err != nil {
			return inv, err
		}
		inv.PaidAt = &t
	}
	return inv, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// parseTarget reads the optional month/year query parameters. Validation
// of the month string itself is left to the engine so the error shape is
// identical no matter where the report is requested from.
func parseTarget(w http.ResponseWriter, r *http.Request) (commission.Target, bool) {
	target := commission.Target{Month: r.URL.Query().Get("month")}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year parameter", err)
			return target, false
		}
		target.Year = year
	}
	return target, true
}

// parseDate accepts RFC3339 or plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func writeComputeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if commission.IsClientError(err) {
		status = http.StatusBadRequest
	}

	resp := ErrorResponse{Error: err.Error()}
	var ce *commission.ComputeError
	if errors.As(err, &ce) {
		resp.Month = ce.Month
	}
	log.Error().Err(err).Msg("report computation failed")
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
