/*
scenarios.go - Demo datasets for exploring the engine

PURPOSE:
  Canned invoice sets that exercise the interesting paths: the 35-45 day
  discount window, lost commissions, late payers, and a growth curve the
  trend report can chew on. Loading a scenario replaces the full dataset.

SCENARIOS:
  growth-quarter     Three months of rising collections plus a running month
  discount-window    Invoices straddling the 35/45 day boundaries
  troubled-month     Lost commissions, late payers, and unknown days-to-pay
  empty              No invoices at all

Dates are generated relative to "now" so the arrears default (previous
month) always has data to show.
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
)

type scenario struct {
	ID          string
	Name        string
	Description string
	Build       func(now time.Time) []commission.Invoice
}

var scenarios = []scenario{
	{
		ID:          "growth-quarter",
		Name:        "Growth Quarter",
		Description: "Three months of rising collections plus invoices issued this month",
		Build:       buildGrowthQuarter,
	},
	{
		ID:          "discount-window",
		Name:        "Discount Window",
		Description: "Invoices straddling the 35-45 day automatic discount boundaries",
		Build:       buildDiscountWindow,
	},
	{
		ID:          "troubled-month",
		Name:        "Troubled Month",
		Description: "Lost commissions, late payers, and brand-new clients",
		Build:       buildTroubledMonth,
	},
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "No invoices at all",
		Build:       func(time.Time) []commission.Invoice { return nil },
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario replaces the dataset with the selected scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var selected *scenario
	for i := range scenarios {
		if scenarios[i].ID == req.ID {
			selected = &scenarios[i]
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scenario %q", req.ID), nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.DeleteAll(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear invoices", err)
		return
	}
	invoices := selected.Build(time.Now().UTC())
	if len(invoices) > 0 {
		if err := h.Store.SaveBatch(ctx, invoices); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load scenario", err)
			return
		}
	}
	h.currentScenario = selected.ID

	log.Info().Str("scenario", selected.ID).Int("invoices", len(invoices)).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": selected.ID,
		"invoices": len(invoices),
	})
}

// GetCurrentScenario reports which scenario is loaded, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	count, err := h.Store.CountInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count invoices", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": h.currentScenario,
		"invoices": count,
	})
}

// ResetInvoices clears all invoices.
// POST /api/scenarios/reset
func (h *Handler) ResetInvoices(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear invoices", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

// demoInvoice builds a paid invoice collected daysToPay days after issue.
func demoInvoice(client string, issued time.Time, grossValue, base, pct float64, daysToPay int) commission.Invoice {
	paidAt := issued.AddDate(0, 0, daysToPay)
	baseDec := decimal.NewFromFloat(base)
	pctDec := decimal.NewFromFloat(pct)
	return commission.Invoice{
		InvoiceID:          commission.InvoiceID(uuid.NewString()),
		ClientID:           commission.ClientID(client),
		GrossValue:         decimal.NewFromFloat(grossValue),
		NetValue:           decimal.NewFromFloat(grossValue * 0.9),
		BaseCommission:     baseDec,
		Percentage:         pctDec,
		OriginalCommission: baseDec.Mul(pctDec).Div(decimal.NewFromInt(100)),
		IssuedAt:           issued,
		ExpectedPaymentAt:  issued.AddDate(0, 0, 30),
		PaymentDeadline:    issued.AddDate(0, 0, 90),
		PaidAt:             &paidAt,
		Paid:               true,
		DaysToPay:          daysToPay,
	}
}

func buildGrowthQuarter(now time.Time) []commission.Invoice {
	var invoices []commission.Invoice

	// Three closed months of rising collections. Invoices are issued 40
	// days before collection so some fall in the discount window.
	for monthsAgo := 3; monthsAgo >= 1; monthsAgo-- {
		month := commission.MonthOf(now).AddMonths(-monthsAgo)
		scale := float64(4 - monthsAgo) // 1x, 2x, 3x
		for day := 5; day <= 25; day += 10 {
			issued := month.Start().AddDate(0, 0, day-40)
			inv := demoInvoice(fmt.Sprintf("client-%d", day/10+1), issued, 10000*scale, 1000*scale, 10, 40)
			paidAt := month.Start().AddDate(0, 0, day)
			inv.PaidAt = &paidAt
			invoices = append(invoices, inv)
		}
	}

	// Running month: issued but unpaid, feeds the projection.
	current := commission.MonthOf(now)
	for day := 1; day <= now.Day() && day <= 20; day += 4 {
		inv := demoInvoice("client-1", current.Start().AddDate(0, 0, day-1), 12000, 1200, 10, 0)
		inv.Paid = false
		inv.PaidAt = nil
		invoices = append(invoices, inv)
	}
	return invoices
}

func buildDiscountWindow(now time.Time) []commission.Invoice {
	prev := commission.MonthOf(now).Prev()
	mid := prev.Start().AddDate(0, 0, 14)

	cases := []struct {
		client    string
		daysToPay int
		footer    bool
	}{
		{"edge-34", 34, false},
		{"edge-35", 35, false},
		{"mid-40", 40, false},
		{"edge-45", 45, false},
		{"edge-46", 46, false},
		{"footer-40", 40, true}, // in window but disqualified by invoice discount
	}

	invoices := make([]commission.Invoice, 0, len(cases))
	for _, c := range cases {
		inv := demoInvoice(c.client, mid.AddDate(0, 0, -c.daysToPay), 10000, 1000, 10, c.daysToPay)
		paidAt := mid
		inv.PaidAt = &paidAt
		inv.HasInvoiceDiscount = c.footer
		invoices = append(invoices, inv)
	}
	return invoices
}

func buildTroubledMonth(now time.Time) []commission.Invoice {
	prev := commission.MonthOf(now).Prev()
	mid := prev.Start().AddDate(0, 0, 14)

	lost := demoInvoice("late-payer", mid.AddDate(0, 0, -95), 20000, 2000, 10, 95)
	paidAt := mid
	lost.PaidAt = &paidAt
	lost.CommissionLost = true
	lost.CommissionLostReason = "paid past deadline"

	late := demoInvoice("late-payer", mid.AddDate(0, 0, -70), 15000, 1500, 10, 70)
	late.PaidAt = &paidAt

	fresh := demoInvoice("new-client", mid, 8000, 800, 10, 0)
	fresh.PaidAt = &paidAt

	normal := demoInvoice("steady-client", mid.AddDate(0, 0, -30), 10000, 1000, 10, 30)
	normal.PaidAt = &paidAt

	return []commission.Invoice{lost, late, fresh, normal}
}
