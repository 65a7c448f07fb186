package recon

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus is the top-level outcome of reconciling one record pair.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusException MatchStatus = "exception"
)

// ExceptionType classifies why a record pair failed to reconcile.
// The zero value means no exception (the pair matched).
type ExceptionType string

const (
	ExceptionNone               ExceptionType = ""
	ExceptionTiming             ExceptionType = "timing"
	ExceptionAmountMismatch     ExceptionType = "amount_mismatch"
	ExceptionMissingInvoice     ExceptionType = "missing_invoice"
	ExceptionMissingOrder       ExceptionType = "missing_order"
	ExceptionPartialFulfillment ExceptionType = "partial_fulfillment"
	ExceptionRefund             ExceptionType = "refund"
	ExceptionCancelled          ExceptionType = "cancelled"
)

// AllExceptionTypes lists every exception category in precedence order
// (strongest signal first). Downstream consumers can range over this to
// handle the full taxonomy exhaustively.
var AllExceptionTypes = []ExceptionType{
	ExceptionCancelled,
	ExceptionRefund,
	ExceptionMissingInvoice,
	ExceptionMissingOrder,
	ExceptionAmountMismatch,
	ExceptionTiming,
	ExceptionPartialFulfillment,
}

// Record status values the engine cares about.
const (
	statusCancelled = "cancelled"
	statusReturned  = "returned"
	statusPending   = "pending"
)

// Order is an operational order record.
type Order struct {
	OrderID    string          `json:"order_id" validate:"required"`
	CustomerID string          `json:"customer_id" validate:"required"`
	OrderDate  time.Time       `json:"order_date" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status" validate:"required"`
}

// Shipment is an operational shipment record. Many shipments may reference
// one order.
type Shipment struct {
	ShipmentID    string          `json:"shipment_id" validate:"required"`
	OrderID       string          `json:"order_id" validate:"required"`
	ShipmentDate  time.Time       `json:"shipment_date" validate:"required"`
	ShippedAmount decimal.Decimal `json:"shipped_amount"`
	Status        string          `json:"status" validate:"required"`
}

// Invoice is a financial invoice record. An invoice references zero or one
// order; an invoice whose order never appears is an orphan.
type Invoice struct {
	InvoiceID   string          `json:"invoice_id" validate:"required"`
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id" validate:"required"`
	InvoiceDate time.Time       `json:"invoice_date" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status" validate:"required"`
}

// LedgerPosting is a financial ledger posting. The amount is signed by the
// transaction type (refunds and credits carry a negative sign in the data).
// Status distinguishes finalized postings from ones still pending; an empty
// status is treated as posted.
type LedgerPosting struct {
	PostingID       string          `json:"posting_id" validate:"required"`
	InvoiceID       string          `json:"invoice_id" validate:"required"`
	PostingDate     time.Time       `json:"posting_date" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Account         string          `json:"account" validate:"required"`
	TransactionType string          `json:"transaction_type" validate:"required"`
	Status          string          `json:"status"`
}

// Transaction types carried by ledger postings.
const (
	TxnDebit      = "debit"
	TxnCredit     = "credit"
	TxnRefund     = "refund"
	TxnAdjustment = "adjustment"
)

// ReconciliationMatch is the classification of one processed order or one
// orphan invoice. It is an engine-owned output value: immutable once
// produced and never aliased back into the input records.
type ReconciliationMatch struct {
	OrderID           string          `json:"order_id"`
	InvoiceID         string          `json:"invoice_id,omitempty"`
	MatchStatus       MatchStatus     `json:"match_status"`
	ExceptionType     ExceptionType   `json:"exception_type,omitempty"`
	OperationalAmount decimal.Decimal `json:"operational_amount"`
	FinancialAmount   decimal.Decimal `json:"financial_amount"`
	Difference        decimal.Decimal `json:"difference"`
	DateDiffDays      int             `json:"date_diff_days"`
	Notes             string          `json:"notes"`
}

// ReconciliationSummary aggregates one run's match list. It is derived
// output only; re-running the aggregation on the same matches yields the
// same summary.
type ReconciliationSummary struct {
	TotalOrders            int             `json:"total_orders"`
	TotalInvoices          int             `json:"total_invoices"`
	MatchedCount           int             `json:"matched_count"`
	ExceptionCount         int             `json:"exception_count"`
	TimingExceptions       int             `json:"timing_exceptions"`
	AmountMismatches       int             `json:"amount_mismatches"`
	MissingInvoices        int             `json:"missing_invoices"`
	MissingOrders          int             `json:"missing_orders"`
	PartialFulfillments    int             `json:"partial_fulfillments"`
	Refunds                int             `json:"refunds"`
	Cancellations          int             `json:"cancellations"`
	TotalOperationalAmount decimal.Decimal `json:"total_operational_amount"`
	TotalFinancialAmount   decimal.Decimal `json:"total_financial_amount"`
	TotalDifference        decimal.Decimal `json:"total_difference"`
}

// Config holds the tolerances for one reconciliation run. It is a value
// type passed into the engine entry point so concurrent runs with different
// tolerances cannot interfere.
type Config struct {
	AmountTolerance     decimal.Decimal // max absolute amount difference still considered equal
	TimingToleranceDays int             // max absolute day difference still considered equal
}

// DefaultConfig returns the standard tolerances: one cent and five days.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:     decimal.NewFromFloat(0.01),
		TimingToleranceDays: 5,
	}
}
