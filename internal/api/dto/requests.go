package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

// ReconcileRequest is the POST /api/v1/reconcile body: the four record
// sequences plus optional tolerance overrides. Amounts and dates arrive as
// strings and are resolved to exact decimals and calendar dates here, so
// the engine never sees raw text.
type ReconcileRequest struct {
	Orders              []OrderRecord    `json:"orders" binding:"required"`
	Shipments           []ShipmentRecord `json:"shipments"`
	Invoices            []InvoiceRecord  `json:"invoices"`
	LedgerPostings      []PostingRecord  `json:"ledger_postings"`
	AmountTolerance     string           `json:"amount_tolerance"`
	TimingToleranceDays *int             `json:"timing_tolerance_days"`
}

// OrderRecord is the wire form of an order.
type OrderRecord struct {
	OrderID    string `json:"order_id" binding:"required"`
	CustomerID string `json:"customer_id" binding:"required"`
	OrderDate  string `json:"order_date" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// ShipmentRecord is the wire form of a shipment.
type ShipmentRecord struct {
	ShipmentID    string `json:"shipment_id" binding:"required"`
	OrderID       string `json:"order_id" binding:"required"`
	ShipmentDate  string `json:"shipment_date" binding:"required"`
	ShippedAmount string `json:"shipped_amount" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// InvoiceRecord is the wire form of an invoice.
type InvoiceRecord struct {
	InvoiceID   string `json:"invoice_id" binding:"required"`
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id" binding:"required"`
	InvoiceDate string `json:"invoice_date" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

// PostingRecord is the wire form of a ledger posting.
type PostingRecord struct {
	PostingID       string `json:"posting_id" binding:"required"`
	InvoiceID       string `json:"invoice_id" binding:"required"`
	PostingDate     string `json:"posting_date" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	Account         string `json:"account" binding:"required"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Status          string `json:"status"`
}

// EngineConfig resolves the request's tolerance overrides against the
// given defaults.
func (r *ReconcileRequest) EngineConfig(defaults recon.Config) (recon.Config, error) {
	cfg := defaults
	if r.AmountTolerance != "" {
		tolerance, err := decimal.NewFromString(r.AmountTolerance)
		if err != nil {
			return recon.Config{}, fmt.Errorf("invalid amount_tolerance %q", r.AmountTolerance)
		}
		if tolerance.IsNegative() {
			return recon.Config{}, fmt.Errorf("amount_tolerance must not be negative")
		}
		cfg.AmountTolerance = tolerance
	}
	if r.TimingToleranceDays != nil {
		if *r.TimingToleranceDays < 0 {
			return recon.Config{}, fmt.Errorf("timing_tolerance_days must not be negative")
		}
		cfg.TimingToleranceDays = *r.TimingToleranceDays
	}
	return cfg, nil
}

// ToDomain converts every wire record into its typed domain form.
func (r *ReconcileRequest) ToDomain() ([]recon.Order, []recon.Shipment, []recon.Invoice, []recon.LedgerPosting, error) {
	orders := make([]recon.Order, 0, len(r.Orders))
	for i, rec := range r.Orders {
		date, err := parseDate(rec.OrderDate)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		amount, err := parseAmount(rec.Amount)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		orders = append(orders, recon.Order{
			OrderID:    rec.OrderID,
			CustomerID: rec.CustomerID,
			OrderDate:  date,
			Amount:     amount,
			Status:     rec.Status,
		})
	}

	shipments := make([]recon.Shipment, 0, len(r.Shipments))
	for i, rec := range r.Shipments {
		date, err := parseDate(rec.ShipmentDate)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("shipments[%d]: %w", i, err)
		}
		amount, err := parseAmount(rec.ShippedAmount)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("shipments[%d]: %w", i, err)
		}
		shipments = append(shipments, recon.Shipment{
			ShipmentID:    rec.ShipmentID,
			OrderID:       rec.OrderID,
			ShipmentDate:  date,
			ShippedAmount: amount,
			Status:        rec.Status,
		})
	}

	invoices := make([]recon.Invoice, 0, len(r.Invoices))
	for i, rec := range r.Invoices {
		date, err := parseDate(rec.InvoiceDate)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("invoices[%d]: %w", i, err)
		}
		amount, err := parseAmount(rec.Amount)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("invoices[%d]: %w", i, err)
		}
		invoices = append(invoices, recon.Invoice{
			InvoiceID:   rec.InvoiceID,
			OrderID:     rec.OrderID,
			CustomerID:  rec.CustomerID,
			InvoiceDate: date,
			Amount:      amount,
			Status:      rec.Status,
		})
	}

	postings := make([]recon.LedgerPosting, 0, len(r.LedgerPostings))
	for i, rec := range r.LedgerPostings {
		date, err := parseDate(rec.PostingDate)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("ledger_postings[%d]: %w", i, err)
		}
		amount, err := parseAmount(rec.Amount)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("ledger_postings[%d]: %w", i, err)
		}
		postings = append(postings, recon.LedgerPosting{
			PostingID:       rec.PostingID,
			InvoiceID:       rec.InvoiceID,
			PostingDate:     date,
			Amount:          amount,
			Account:         rec.Account,
			TransactionType: rec.TransactionType,
			Status:          rec.Status,
		})
	}

	return orders, shipments, invoices, postings, nil
}

// parseDate accepts a date or a full timestamp and truncates either to the
// calendar date, so day-count math never sees a time of day.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q", s)
	}
	return d, nil
}
