// Package loader reads operational and financial records from CSV or JSON
// files and hands them to the reconciliation engine as typed, validated
// sequences. Dates are resolved to calendar dates and amounts to exact
// decimals here; the engine never sees raw text.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

var validate = validator.New()

// Date layouts accepted in input files, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// flexString unmarshals either a JSON string or a bare JSON number, so
// amount columns work whether a JSON export quotes them or not.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(string(b))
	return nil
}

type orderRow struct {
	OrderID    string     `json:"order_id" validate:"required"`
	CustomerID string     `json:"customer_id" validate:"required"`
	OrderDate  string     `json:"order_date" validate:"required"`
	Amount     flexString `json:"amount" validate:"required"`
	Status     string     `json:"status" validate:"required"`
}

type shipmentRow struct {
	ShipmentID    string     `json:"shipment_id" validate:"required"`
	OrderID       string     `json:"order_id" validate:"required"`
	ShipmentDate  string     `json:"shipment_date" validate:"required"`
	ShippedAmount flexString `json:"shipped_amount" validate:"required"`
	Status        string     `json:"status" validate:"required"`
}

type invoiceRow struct {
	InvoiceID   string     `json:"invoice_id" validate:"required"`
	OrderID     string     `json:"order_id"`
	CustomerID  string     `json:"customer_id" validate:"required"`
	InvoiceDate string     `json:"invoice_date" validate:"required"`
	Amount      flexString `json:"amount" validate:"required"`
	Status      string     `json:"status" validate:"required"`
}

type postingRow struct {
	PostingID       string     `json:"posting_id" validate:"required"`
	InvoiceID       string     `json:"invoice_id" validate:"required"`
	PostingDate     string     `json:"posting_date" validate:"required"`
	Amount          flexString `json:"amount" validate:"required"`
	Account         string     `json:"account" validate:"required"`
	TransactionType string     `json:"transaction_type" validate:"required"`
	Status          string     `json:"status"`
}

// LoadOrders reads orders from a .csv or .json file.
func LoadOrders(path string) ([]recon.Order, error) {
	rows, err := loadRows[orderRow](path, func(get func(string) string) orderRow {
		return orderRow{
			OrderID:    get("order_id"),
			CustomerID: get("customer_id"),
			OrderDate:  get("order_date"),
			Amount:     flexString(get("amount")),
			Status:     get("status"),
		}
	})
	if err != nil {
		return nil, err
	}

	orders := make([]recon.Order, 0, len(rows))
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("order record %d: %w", i+1, err)
		}
		date, err := parseDate(row.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("order record %d: %w", i+1, err)
		}
		amount, err := parseAmount(string(row.Amount))
		if err != nil {
			return nil, fmt.Errorf("order record %d: %w", i+1, err)
		}
		orders = append(orders, recon.Order{
			OrderID:    row.OrderID,
			CustomerID: row.CustomerID,
			OrderDate:  date,
			Amount:     amount,
			Status:     row.Status,
		})
	}
	return orders, nil
}

// LoadShipments reads shipments from a .csv or .json file.
func LoadShipments(path string) ([]recon.Shipment, error) {
	rows, err := loadRows[shipmentRow](path, func(get func(string) string) shipmentRow {
		return shipmentRow{
			ShipmentID:    get("shipment_id"),
			OrderID:       get("order_id"),
			ShipmentDate:  get("shipment_date"),
			ShippedAmount: flexString(get("shipped_amount")),
			Status:        get("status"),
		}
	})
	if err != nil {
		return nil, err
	}

	shipments := make([]recon.Shipment, 0, len(rows))
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("shipment record %d: %w", i+1, err)
		}
		date, err := parseDate(row.ShipmentDate)
		if err != nil {
			return nil, fmt.Errorf("shipment record %d: %w", i+1, err)
		}
		amount, err := parseAmount(string(row.ShippedAmount))
		if err != nil {
			return nil, fmt.Errorf("shipment record %d: %w", i+1, err)
		}
		shipments = append(shipments, recon.Shipment{
			ShipmentID:    row.ShipmentID,
			OrderID:       row.OrderID,
			ShipmentDate:  date,
			ShippedAmount: amount,
			Status:        row.Status,
		})
	}
	return shipments, nil
}

// LoadInvoices reads invoices from a .csv or .json file.
func LoadInvoices(path string) ([]recon.Invoice, error) {
	rows, err := loadRows[invoiceRow](path, func(get func(string) string) invoiceRow {
		return invoiceRow{
			InvoiceID:   get("invoice_id"),
			OrderID:     get("order_id"),
			CustomerID:  get("customer_id"),
			InvoiceDate: get("invoice_date"),
			Amount:      flexString(get("amount")),
			Status:      get("status"),
		}
	})
	if err != nil {
		return nil, err
	}

	invoices := make([]recon.Invoice, 0, len(rows))
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("invoice record %d: %w", i+1, err)
		}
		date, err := parseDate(row.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("invoice record %d: %w", i+1, err)
		}
		amount, err := parseAmount(string(row.Amount))
		if err != nil {
			return nil, fmt.Errorf("invoice record %d: %w", i+1, err)
		}
		invoices = append(invoices, recon.Invoice{
			InvoiceID:   row.InvoiceID,
			OrderID:     row.OrderID,
			CustomerID:  row.CustomerID,
			InvoiceDate: date,
			Amount:      amount,
			Status:      row.Status,
		})
	}
	return invoices, nil
}

// LoadLedgerPostings reads ledger postings from a .csv or .json file.
// Posting amounts keep the sign carried in the data; a missing status is
// treated as posted by the engine.
func LoadLedgerPostings(path string) ([]recon.LedgerPosting, error) {
	rows, err := loadRows[postingRow](path, func(get func(string) string) postingRow {
		return postingRow{
			PostingID:       get("posting_id"),
			InvoiceID:       get("invoice_id"),
			PostingDate:     get("posting_date"),
			Amount:          flexString(get("amount")),
			Account:         get("account"),
			TransactionType: get("transaction_type"),
			Status:          get("status"),
		}
	})
	if err != nil {
		return nil, err
	}

	postings := make([]recon.LedgerPosting, 0, len(rows))
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("ledger posting record %d: %w", i+1, err)
		}
		date, err := parseDate(row.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("ledger posting record %d: %w", i+1, err)
		}
		amount, err := parseAmount(string(row.Amount))
		if err != nil {
			return nil, fmt.Errorf("ledger posting record %d: %w", i+1, err)
		}
		postings = append(postings, recon.LedgerPosting{
			PostingID:       row.PostingID,
			InvoiceID:       row.InvoiceID,
			PostingDate:     date,
			Amount:          amount,
			Account:         row.Account,
			TransactionType: row.TransactionType,
			Status:          row.Status,
		})
	}
	return postings, nil
}

// loadRows dispatches on file extension: CSV rows are rebuilt through the
// header-indexed fromCSV callback, JSON files must hold an array of
// objects.
func loadRows[T any](path string, fromCSV func(get func(string) string) T) ([]T, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSVRows(path, fromCSV)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var rows []T
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file format %q (want .csv or .json)", ext)
	}
}

func readCSVRows[T any](path string, fromCSV func(get func(string) string) T) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}

	rows := make([]T, 0, len(records)-1)
	for _, rec := range records[1:] {
		get := func(name string) string {
			i, ok := header[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, fromCSV(get))
	}
	return rows, nil
}

// parseDate accepts a date or a full timestamp and truncates either to the
// calendar date, so day-count math never sees a time of day.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
