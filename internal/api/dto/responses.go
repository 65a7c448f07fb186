package dto

import (
	"time"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
	"github.com/eshaffer321/finops-recon/internal/loader"
)

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// MatchResult is the wire form of a single reconciliation outcome.
type MatchResult struct {
	OrderID           string `json:"order_id"`
	InvoiceID         string `json:"invoice_id,omitempty"`
	MatchStatus       string `json:"match_status"`
	ExceptionType     string `json:"exception_type,omitempty"`
	OperationalAmount string `json:"operational_amount"`
	FinancialAmount   string `json:"financial_amount"`
	Difference        string `json:"difference"`
	DateDiffDays      int    `json:"date_diff_days"`
	Notes             string `json:"notes,omitempty"`
}

// SummaryResult is the wire form of the run summary.
type SummaryResult struct {
	TotalOrders         int `json:"total_orders"`
	TotalInvoices       int `json:"total_invoices"`
	MatchedCount        int `json:"matched_count"`
	ExceptionCount      int `json:"exception_count"`
	MissingInvoices     int `json:"missing_invoices"`
	MissingOrders       int `json:"missing_orders"`
	AmountMismatches    int `json:"amount_mismatches"`
	TimingExceptions    int `json:"timing_exceptions"`
	PartialFulfillments int `json:"partial_fulfillments"`
	Refunds             int `json:"refunds"`
	Cancellations       int `json:"cancellations"`

	TotalOperationalAmount string `json:"total_operational_amount"`
	TotalFinancialAmount   string `json:"total_financial_amount"`
	TotalDifference        string `json:"total_difference"`
}

// ValidationWarnings surfaces pre-flight data issues that did not stop
// the run.
type ValidationWarnings struct {
	DuplicateOrders   []string `json:"duplicate_orders,omitempty"`
	DuplicateInvoices []string `json:"duplicate_invoices,omitempty"`
	InvalidAmounts    []string `json:"invalid_amounts,omitempty"`
}

// ReconcileResponse is the success body for POST /api/v1/reconcile.
type ReconcileResponse struct {
	RunID     string              `json:"run_id"`
	Timestamp string              `json:"timestamp"`
	Summary   SummaryResult       `json:"summary"`
	Matches   []MatchResult       `json:"matches"`
	Warnings  *ValidationWarnings `json:"warnings,omitempty"`
}

// NewReconcileResponse flattens engine output into wire types. Amounts are
// rendered with two decimal places so clients never depend on trailing-zero
// behavior of the decimal library.
func NewReconcileResponse(runID string, at time.Time, matches []recon.ReconciliationMatch, summary recon.ReconciliationSummary, issues loader.Issues) ReconcileResponse {
	results := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, MatchResult{
			OrderID:           m.OrderID,
			InvoiceID:         m.InvoiceID,
			MatchStatus:       string(m.MatchStatus),
			ExceptionType:     string(m.ExceptionType),
			OperationalAmount: m.OperationalAmount.StringFixed(2),
			FinancialAmount:   m.FinancialAmount.StringFixed(2),
			Difference:        m.Difference.StringFixed(2),
			DateDiffDays:      m.DateDiffDays,
			Notes:             m.Notes,
		})
	}

	resp := ReconcileResponse{
		RunID:     runID,
		Timestamp: at.UTC().Format(time.RFC3339),
		Summary: SummaryResult{
			TotalOrders:         summary.TotalOrders,
			TotalInvoices:       summary.TotalInvoices,
			MatchedCount:        summary.MatchedCount,
			ExceptionCount:      summary.ExceptionCount,
			MissingInvoices:     summary.MissingInvoices,
			MissingOrders:       summary.MissingOrders,
			AmountMismatches:    summary.AmountMismatches,
			TimingExceptions:    summary.TimingExceptions,
			PartialFulfillments: summary.PartialFulfillments,
			Refunds:             summary.Refunds,
			Cancellations:       summary.Cancellations,

			TotalOperationalAmount: summary.TotalOperationalAmount.StringFixed(2),
			TotalFinancialAmount:   summary.TotalFinancialAmount.StringFixed(2),
			TotalDifference:        summary.TotalDifference.StringFixed(2),
		},
		Matches: results,
	}
	if !issues.Empty() {
		resp.Warnings = &ValidationWarnings{
			DuplicateOrders:   issues.DuplicateOrders,
			DuplicateInvoices: issues.DuplicateInvoices,
			InvalidAmounts:    issues.InvalidAmounts,
		}
	}
	return resp
}
