package recon

import "github.com/shopspring/decimal"

// Summarize folds a match list into a ReconciliationSummary in a single
// pass. Totals use exact decimal addition. The fold is purely derived
// state: summarizing the same matches twice yields identical summaries.
//
// Total order and invoice counts are recovered from the matches
// themselves: every match except missing_order represents exactly one
// order, and every match carrying an invoice id accounts for exactly one
// invoice.
func Summarize(matches []ReconciliationMatch) ReconciliationSummary {
	s := ReconciliationSummary{
		TotalOperationalAmount: decimal.Zero,
		TotalFinancialAmount:   decimal.Zero,
		TotalDifference:        decimal.Zero,
	}

	for _, m := range matches {
		if m.ExceptionType != ExceptionMissingOrder {
			s.TotalOrders++
		}
		if m.InvoiceID != "" {
			s.TotalInvoices++
		}

		switch m.ExceptionType {
		case ExceptionNone:
			s.MatchedCount++
		case ExceptionTiming:
			s.TimingExceptions++
		case ExceptionAmountMismatch:
			s.AmountMismatches++
		case ExceptionMissingInvoice:
			s.MissingInvoices++
		case ExceptionMissingOrder:
			s.MissingOrders++
		case ExceptionPartialFulfillment:
			s.PartialFulfillments++
		case ExceptionRefund:
			s.Refunds++
		case ExceptionCancelled:
			s.Cancellations++
		}
		if m.MatchStatus == StatusException {
			s.ExceptionCount++
		}

		s.TotalOperationalAmount = s.TotalOperationalAmount.Add(m.OperationalAmount)
		s.TotalFinancialAmount = s.TotalFinancialAmount.Add(m.FinancialAmount)
	}

	s.TotalDifference = s.TotalOperationalAmount.Sub(s.TotalFinancialAmount)
	return s
}
