/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal.Decimal, time.Time) from the external
  API contract: money renders as 2-decimal floats, dates as ISO strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ERROR SHAPE:
  Failed report computations render as ErrorResponse with the attempted
  month, so clients branch on the presence of "error" before reading
  numeric fields.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commission"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// InvoiceDTO represents an invoice in API responses.
type InvoiceDTO struct {
	InvoiceID            string  `json:"invoice_id"`
	ClientID             string  `json:"client_id"`
	GrossValue           float64 `json:"gross_value"`
	NetValue             float64 `json:"net_value"`
	BaseCommission       float64 `json:"base_commission"`
	Percentage           float64 `json:"percentage"`
	OriginalCommission   float64 `json:"original_commission"`
	IssuedAt             string  `json:"issued_at"`
	ExpectedPaymentAt    string  `json:"expected_payment_at,omitempty"`
	PaymentDeadline      string  `json:"payment_deadline,omitempty"`
	PaidAt               *string `json:"paid_at,omitempty"`
	Paid                 bool    `json:"paid"`
	DaysToPay            int     `json:"days_to_pay"`
	HasInvoiceDiscount   bool    `json:"has_invoice_discount"`
	CommissionLost       bool    `json:"commission_lost"`
	CommissionLostReason string  `json:"commission_lost_reason,omitempty"`
}

// CreateInvoiceRequest is the request to record an invoice.
type CreateInvoiceRequest struct {
	InvoiceID            string  `json:"invoice_id,omitempty"`
	ClientID             string  `json:"client_id"`
	GrossValue           float64 `json:"gross_value"`
	NetValue             float64 `json:"net_value"`
	BaseCommission       float64 `json:"base_commission"`
	Percentage           float64 `json:"percentage"`
	OriginalCommission   float64 `json:"original_commission"`
	IssuedAt             string  `json:"issued_at"`
	ExpectedPaymentAt    string  `json:"expected_payment_at,omitempty"`
	PaymentDeadline      string  `json:"payment_deadline,omitempty"`
	PaidAt               string  `json:"paid_at,omitempty"`
	Paid                 bool    `json:"paid"`
	DaysToPay            int     `json:"days_to_pay"`
	HasInvoiceDiscount   bool    `json:"has_invoice_discount"`
	CommissionLost       bool    `json:"commission_lost"`
	CommissionLostReason string  `json:"commission_lost_reason,omitempty"`
}

// MonthlyReportDTO represents one month's aggregation.
type MonthlyReportDTO struct {
	Month             string             `json:"month"`
	InvoiceCount      int                `json:"invoice_count"`
	GrossCommission   float64            `json:"gross_commission"`
	HealthDiscount    float64            `json:"health_discount"`
	ReserveDiscount   float64            `json:"reserve_discount"`
	TotalDiscount     float64            `json:"total_discount"`
	NetCommission     float64            `json:"net_commission"`
	AutoDiscountCount int                `json:"auto_discount_count"`
	AutoDiscountTotal float64            `json:"auto_discount_total"`
	Clients           []ClientSummaryDTO `json:"clients"`
	Alerts            []string           `json:"alerts"`
}

// ClientSummaryDTO represents one client's monthly rollup.
type ClientSummaryDTO struct {
	ClientID          string  `json:"client_id"`
	TotalCommission   float64 `json:"total_commission"`
	InvoiceCount      int     `json:"invoice_count"`
	TotalGrossValue   float64 `json:"total_gross_value"`
	TotalAutoDiscount float64 `json:"total_auto_discount"`
	AvgDaysToPay      float64 `json:"avg_days_to_pay"`
}

// ProjectionDTO represents the current-month forecast.
type ProjectionDTO struct {
	Month                string  `json:"month"`
	InvoiceCount         int     `json:"invoice_count"`
	DaysElapsed          int     `json:"days_elapsed"`
	DaysInMonth          int     `json:"days_in_month"`
	DaysRemaining        int     `json:"days_remaining"`
	CurrentCommission    float64 `json:"current_commission"`
	RunRate              float64 `json:"run_rate"`
	GrossProjection      float64 `json:"gross_projection"`
	TotalDiscount        float64 `json:"total_discount"`
	NetProjection        float64 `json:"net_projection"`
	CompletionLikelihood float64 `json:"completion_likelihood"`
}

// HistoryDTO represents the rolling trend window.
type HistoryDTO struct {
	Months       []MonthHistoryDTO `json:"months"`
	TrendPercent float64           `json:"trend_percent"`
	AverageNet   float64           `json:"average_net"`
	TotalNet     float64           `json:"total_net"`
}

// MonthHistoryDTO represents one slice of the history window.
type MonthHistoryDTO struct {
	Month         string  `json:"month"`
	NetCommission float64 `json:"net_commission"`
	InvoiceCount  int     `json:"invoice_count"`
	TotalDiscount float64 `json:"total_discount"`
}

// ReportDTO is the composed report.
type ReportDTO struct {
	Month      MonthlyReportDTO    `json:"month"`
	Projection ProjectionDTO       `json:"projection"`
	History    HistoryDTO          `json:"history"`
	Summary    ExecutiveSummaryDTO `json:"summary"`
}

// ExecutiveSummaryDTO is the headline section of the composed report.
type ExecutiveSummaryDTO struct {
	NetCommission     float64 `json:"net_commission"`
	ProjectedNet      float64 `json:"projected_net"`
	TrendPercent      float64 `json:"trend_percent"`
	HistoricalAverage float64 `json:"historical_average"`
	Status            string  `json:"status"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error response. Month is the "YYYY-MM"
// key being processed when the failure happened inside a report pass.
type ErrorResponse struct {
	Error   string `json:"error"`
	Month   string `json:"month,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func toInvoiceDTO(inv commission.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		InvoiceID:            string(inv.InvoiceID),
		ClientID:             string(inv.ClientID),
		GrossValue:           money(inv.GrossValue),
		NetValue:             money(inv.NetValue),
		BaseCommission:       money(inv.BaseCommission),
		Percentage:           money(inv.Percentage),
		OriginalCommission:   money(inv.OriginalCommission),
		IssuedAt:             inv.IssuedAt.Format(time.RFC3339),
		Paid:                 inv.Paid,
		DaysToPay:            inv.DaysToPay,
		HasInvoiceDiscount:   inv.HasInvoiceDiscount,
		CommissionLost:       inv.CommissionLost,
		CommissionLostReason: inv.CommissionLostReason,
	}
	if !inv.ExpectedPaymentAt.IsZero() {
		dto.ExpectedPaymentAt = inv.ExpectedPaymentAt.Format(time.RFC3339)
	}
	if !inv.PaymentDeadline.IsZero() {
		dto.PaymentDeadline = inv.PaymentDeadline.Format(time.RFC3339)
	}
	if inv.PaidAt != nil {
		s := inv.PaidAt.Format(time.RFC3339)
		dto.PaidAt = &s
	}
	return dto
}

func toInvoiceDTOs(invs []commission.Invoice) []InvoiceDTO {
	dtos := make([]InvoiceDTO, len(invs))
	for i, inv := range invs {
		dtos[i] = toInvoiceDTO(inv)
	}
	return dtos
}

func toMonthlyReportDTO(rep *commission.MonthlyReport) MonthlyReportDTO {
	clients := make([]ClientSummaryDTO, len(rep.Clients))
	for i, c := range rep.Clients {
		clients[i] = ClientSummaryDTO{
			ClientID:          string(c.ClientID),
			TotalCommission:   money(c.TotalCommission),
			InvoiceCount:      c.InvoiceCount,
			TotalGrossValue:   money(c.TotalGrossValue),
			TotalAutoDiscount: money(c.TotalAutoDiscount),
			AvgDaysToPay:      money(c.AvgDaysToPay),
		}
	}
	alerts := rep.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return MonthlyReportDTO{
		Month:             rep.Month,
		InvoiceCount:      rep.InvoiceCount,
		GrossCommission:   money(rep.GrossCommission),
		HealthDiscount:    money(rep.HealthDiscount),
		ReserveDiscount:   money(rep.ReserveDiscount),
		TotalDiscount:     money(rep.TotalDiscount),
		NetCommission:     money(rep.NetCommission),
		AutoDiscountCount: rep.AutoDiscountCount,
		AutoDiscountTotal: money(rep.AutoDiscountTotal),
		Clients:           clients,
		Alerts:            alerts,
	}
}

func toProjectionDTO(p *commission.Projection) ProjectionDTO {
	return ProjectionDTO{
		Month:                p.Month,
		InvoiceCount:         p.InvoiceCount,
		DaysElapsed:          p.DaysElapsed,
		DaysInMonth:          p.DaysInMonth,
		DaysRemaining:        p.DaysRemaining,
		CurrentCommission:    money(p.CurrentCommission),
		RunRate:              money(p.RunRate),
		GrossProjection:      money(p.GrossProjection),
		TotalDiscount:        money(p.TotalDiscount),
		NetProjection:        money(p.NetProjection),
		CompletionLikelihood: money(p.CompletionLikelihood),
	}
}

func toHistoryDTO(h *commission.History) HistoryDTO {
	months := make([]MonthHistoryDTO, len(h.Months))
	for i, m := range h.Months {
		months[i] = MonthHistoryDTO{
			Month:         m.Month,
			NetCommission: money(m.NetCommission),
			InvoiceCount:  m.InvoiceCount,
			TotalDiscount: money(m.TotalDiscount),
		}
	}
	return HistoryDTO{
		Months:       months,
		TrendPercent: money(h.TrendPercent),
		AverageNet:   money(h.AverageNet),
		TotalNet:     money(h.TotalNet),
	}
}

func toReportDTO(r *commission.Report) ReportDTO {
	return ReportDTO{
		Month:      toMonthlyReportDTO(r.Month),
		Projection: toProjectionDTO(r.Projection),
		History:    toHistoryDTO(r.History),
		Summary: ExecutiveSummaryDTO{
			NetCommission:     money(r.Summary.NetCommission),
			ProjectedNet:      money(r.Summary.ProjectedNet),
			TrendPercent:      money(r.Summary.TrendPercent),
			HistoricalAverage: money(r.Summary.HistoricalAverage),
			Status:            r.Summary.Status,
		},
	}
}
