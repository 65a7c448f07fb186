// Package recon implements the reconciliation engine that matches
// operational records (orders, shipments) against financial records
// (invoices, ledger postings).
//
// Classification follows a fixed precedence chain:
//
//	cancelled > refund > missing_invoice > amount_mismatch > timing >
//	partial_fulfillment > matched
//
// Each order yields exactly one ReconciliationMatch, and each invoice not
// consumed by an order yields one missing_order match. The engine is a
// pure, synchronous transformation: it performs no I/O and its output is
// deterministic for fixed inputs and tolerances.
//
// Example usage:
//
//	engine := recon.NewEngine(recon.DefaultConfig())
//	matches, summary, err := engine.Reconcile(orders, shipments, invoices, postings)
package recon

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Engine reconciles operational records against financial records.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given tolerances.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Reconcile classifies every order (in input order) and afterwards every
// orphan invoice (in input order), then folds the matches into a summary.
//
// The only error condition is an integrity fault from index construction
// (duplicate primary keys); no matches are returned in that case.
func (e *Engine) Reconcile(orders []Order, shipments []Shipment, invoices []Invoice, postings []LedgerPosting) ([]ReconciliationMatch, ReconciliationSummary, error) {
	idx, err := BuildIndexes(orders, shipments, invoices, postings)
	if err != nil {
		return nil, ReconciliationSummary{}, err
	}

	matches := make([]ReconciliationMatch, 0, len(orders)+len(invoices))
	consumed := make(map[string]bool, len(invoices))

	for i := range orders {
		order := &orders[i]
		invoice := idx.InvoiceByOrderID[order.OrderID]
		if invoice != nil {
			consumed[invoice.InvoiceID] = true
		}
		matches = append(matches, e.classifyOrder(order, invoice, idx))
	}

	for i := range invoices {
		invoice := &invoices[i]
		if consumed[invoice.InvoiceID] {
			continue
		}
		matches = append(matches, missingOrderMatch(invoice))
	}

	return matches, Summarize(matches), nil
}

// classifyOrder runs the rule chain for one order and builds its match.
func (e *Engine) classifyOrder(order *Order, invoice *Invoice, idx *Indexes) ReconciliationMatch {
	rc := &ruleContext{
		cfg:          e.cfg,
		order:        order,
		invoice:      invoice,
		amountDiff:   decimal.Zero,
		shippedTotal: decimal.Zero,
	}

	if invoice != nil {
		rc.ledger = AnalyzeLedger(idx.PostingsByInvoice[invoice.InvoiceID])
		rc.amountDiff = order.Amount.Sub(invoice.Amount).Abs()
		rc.dateDiffDays = dateDiffDays(order.OrderDate, invoice.InvoiceDate)
	}
	for _, s := range idx.ShipmentsByOrder[order.OrderID] {
		if s.Status == statusReturned {
			continue
		}
		rc.shippedTotal = rc.shippedTotal.Add(s.ShippedAmount)
		rc.hasShipments = true
	}

	match := ReconciliationMatch{
		OrderID:           order.OrderID,
		MatchStatus:       StatusMatched,
		OperationalAmount: order.Amount,
		FinancialAmount:   decimal.Zero,
		Difference:        order.Amount,
		Notes:             "OK",
	}
	if invoice != nil {
		match.InvoiceID = invoice.InvoiceID
		match.FinancialAmount = invoice.Amount
		match.Difference = order.Amount.Sub(invoice.Amount)
		match.DateDiffDays = rc.dateDiffDays
	}

	for _, rule := range orderRules {
		triggered, note := rule.applies(rc)
		if !triggered {
			continue
		}
		match.MatchStatus = StatusException
		match.ExceptionType = rule.exception
		match.Notes = note
		break
	}

	// Duplicate postings never change the category, but the reviewer
	// should still see them.
	if rc.ledger.HasDuplicate {
		match.Notes += "; duplicate ledger postings detected"
	}

	return match
}

// missingOrderMatch builds the orphan-invoice match. The order id is
// carried over from the invoice's dangling reference.
func missingOrderMatch(invoice *Invoice) ReconciliationMatch {
	return ReconciliationMatch{
		OrderID:           invoice.OrderID,
		InvoiceID:         invoice.InvoiceID,
		MatchStatus:       StatusException,
		ExceptionType:     ExceptionMissingOrder,
		OperationalAmount: decimal.Zero,
		FinancialAmount:   invoice.Amount,
		Difference:        invoice.Amount.Neg(),
		Notes:             "no order found for invoice " + invoice.InvoiceID,
	}
}

// dateDiffDays returns the absolute whole-day difference between two
// calendar dates.
func dateDiffDays(a, b time.Time) int {
	hours := math.Abs(a.Sub(b).Hours())
	return int(hours / 24)
}
