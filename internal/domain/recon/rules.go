package recon

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ruleContext carries everything one classification needs, precomputed so
// individual rules stay pure predicates.
type ruleContext struct {
	cfg          Config
	order        *Order
	invoice      *Invoice // nil when no invoice references the order
	ledger       LedgerSummary
	amountDiff   decimal.Decimal // |order - invoice|, zero when invoice is nil
	dateDiffDays int
	shippedTotal decimal.Decimal // non-returned shipments only
	hasShipments bool
}

// classificationRule pairs one exception category with its trigger
// predicate. A triggered rule also supplies the human-readable note.
type classificationRule struct {
	exception ExceptionType
	applies   func(*ruleContext) (bool, string)
}

// orderRules is the fixed precedence chain for classifying an order. The
// chain is evaluated top to bottom and the first trigger wins, so exactly
// one exception type is ever attached to a match. missing_order is not in
// this chain; it is emitted for orphan invoices after all orders are
// processed.
//
// Evaluation order: a missing invoice short-circuits everything since no
// pairwise rule can evaluate without one. With an invoice present the
// strongest explicit signals come first: a mutual cancellation, then refund
// evidence in the ledger, then amount disagreement, then timing
// disagreement, then under-shipment. amount_mismatch deliberately outranks
// timing when both exceed tolerance.
var orderRules = []classificationRule{
	{
		exception: ExceptionMissingInvoice,
		applies: func(rc *ruleContext) (bool, string) {
			if rc.invoice != nil {
				return false, ""
			}
			note := fmt.Sprintf("no invoice found for order %s", rc.order.OrderID)
			if rc.order.Status == statusCancelled {
				note += " (order is cancelled)"
			}
			return true, note
		},
	},
	{
		exception: ExceptionCancelled,
		applies: func(rc *ruleContext) (bool, string) {
			if rc.order.Status != statusCancelled || rc.invoice.Status != statusCancelled {
				return false, ""
			}
			return true, fmt.Sprintf("cancelled: order status=%s, invoice status=%s",
				rc.order.Status, rc.invoice.Status)
		},
	},
	{
		exception: ExceptionRefund,
		applies: func(rc *ruleContext) (bool, string) {
			if !rc.ledger.HasRefund {
				return false, ""
			}
			return true, fmt.Sprintf("refund detected in ledger: net posted amount %s",
				rc.ledger.PostedAmount.StringFixed(2))
		},
	},
	{
		exception: ExceptionAmountMismatch,
		applies: func(rc *ruleContext) (bool, string) {
			if rc.amountDiff.Cmp(rc.cfg.AmountTolerance) <= 0 {
				return false, ""
			}
			return true, fmt.Sprintf("amount mismatch: order %s vs invoice %s",
				rc.order.Amount.StringFixed(2), rc.invoice.Amount.StringFixed(2))
		},
	},
	{
		exception: ExceptionTiming,
		applies: func(rc *ruleContext) (bool, string) {
			if rc.dateDiffDays <= rc.cfg.TimingToleranceDays {
				return false, ""
			}
			return true, fmt.Sprintf("timing issue: %d days between order and invoice", rc.dateDiffDays)
		},
	},
	{
		exception: ExceptionPartialFulfillment,
		applies: func(rc *ruleContext) (bool, string) {
			// No shipment records means no fulfillment evidence to judge.
			if !rc.hasShipments {
				return false, ""
			}
			shortfall := rc.order.Amount.Sub(rc.shippedTotal)
			if shortfall.Cmp(rc.cfg.AmountTolerance) <= 0 {
				return false, ""
			}
			return true, fmt.Sprintf("partial fulfillment: shipped %s of %s",
				rc.shippedTotal.StringFixed(2), rc.order.Amount.StringFixed(2))
		},
	},
}
