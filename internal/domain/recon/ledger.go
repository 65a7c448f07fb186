package recon

import (
	"github.com/shopspring/decimal"
)

// LedgerSummary is the per-invoice aggregate of its ledger postings.
type LedgerSummary struct {
	PostedAmount  decimal.Decimal // sum of finalized postings
	PendingAmount decimal.Decimal // sum of postings still pending
	HasRefund     bool
	HasDuplicate  bool
	PostingCount  int
}

// AnalyzeLedger folds one invoice's postings into a LedgerSummary.
//
// A refund is flagged when any posting's transaction type is refund, or
// when a non-adjustment posting carries a negative signed amount. A
// duplicate is flagged when two or more postings share account, posting
// date and absolute amount (they already share the invoice).
//
// Sums are order-independent, so the result does not depend on posting
// iteration order. An invoice with zero postings reports zero posted
// amount and no flags.
func AnalyzeLedger(postings []*LedgerPosting) LedgerSummary {
	summary := LedgerSummary{
		PostedAmount:  decimal.Zero,
		PendingAmount: decimal.Zero,
		PostingCount:  len(postings),
	}

	seen := make(map[postingKey]int, len(postings))
	for _, p := range postings {
		if p.Status == statusPending {
			summary.PendingAmount = summary.PendingAmount.Add(p.Amount)
		} else {
			summary.PostedAmount = summary.PostedAmount.Add(p.Amount)
		}

		if p.TransactionType == TxnRefund {
			summary.HasRefund = true
		} else if p.TransactionType != TxnAdjustment && p.Amount.IsNegative() {
			summary.HasRefund = true
		}

		key := postingKey{
			account:   p.Account,
			date:      p.PostingDate.Format("2006-01-02"),
			absAmount: p.Amount.Abs().String(),
		}
		seen[key]++
		if seen[key] > 1 {
			summary.HasDuplicate = true
		}
	}

	return summary
}

type postingKey struct {
	account   string
	date      string
	absAmount string
}
