package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOrders_CSV(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"order_id,customer_id,order_date,amount,status\n"+
			"ORD-001,CUST-001,2024-01-15,1500.00,completed\n"+
			"ORD-002,CUST-002,2024-01-16,2340.50,completed\n")

	orders, err := LoadOrders(path)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-001", orders[0].OrderID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), orders[0].OrderDate)
	assert.True(t, orders[0].Amount.Equal(decimal.RequireFromString("1500.00")))
	assert.Equal(t, "completed", orders[0].Status)
}

func TestLoadOrders_JSON(t *testing.T) {
	path := writeFile(t, "orders.json", `[
		{"order_id": "ORD-001", "customer_id": "CUST-001", "order_date": "2024-01-15", "amount": "1500.00", "status": "completed"},
		{"order_id": "ORD-002", "customer_id": "CUST-002", "order_date": "2024-01-16", "amount": 890.25, "status": "pending"}
	]`)

	orders, err := LoadOrders(path)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Unquoted JSON numbers parse too.
	assert.True(t, orders[1].Amount.Equal(decimal.RequireFromString("890.25")))
}

func TestLoadOrders_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "orders.xlsx", "not a real workbook")

	_, err := LoadOrders(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestLoadOrders_MissingRequiredField(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"order_id,customer_id,order_date,amount,status\n"+
			",CUST-001,2024-01-15,1500.00,completed\n")

	_, err := LoadOrders(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order record 1")
}

func TestLoadOrders_BadAmount(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"order_id,customer_id,order_date,amount,status\n"+
			"ORD-001,CUST-001,2024-01-15,not-a-number,completed\n")

	_, err := LoadOrders(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse amount")
}

func TestLoadOrders_BadDate(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"order_id,customer_id,order_date,amount,status\n"+
			"ORD-001,CUST-001,15/01/2024,1500.00,completed\n")

	_, err := LoadOrders(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse date")
}

func TestLoadShipments_CSV(t *testing.T) {
	path := writeFile(t, "shipments.csv",
		"shipment_id,order_id,shipment_date,shipped_amount,status\n"+
			"SHP-001,ORD-001,2024-01-16,1500.00,delivered\n")

	shipments, err := LoadShipments(path)

	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "ORD-001", shipments[0].OrderID)
}

func TestLoadInvoices_EmptyOrderReferenceAllowed(t *testing.T) {
	// An invoice may reference no order at all; it becomes an orphan.
	path := writeFile(t, "invoices.csv",
		"invoice_id,order_id,customer_id,invoice_date,amount,status\n"+
			"INV-001,,CUST-001,2024-01-15,1500.00,paid\n")

	invoices, err := LoadInvoices(path)

	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Empty(t, invoices[0].OrderID)
}

func TestLoadLedgerPostings_CSV(t *testing.T) {
	path := writeFile(t, "ledger.csv",
		"posting_id,invoice_id,posting_date,amount,account,transaction_type,status\n"+
			"LP-001,INV-001,2024-01-16,1500.00,accounts_receivable,debit,posted\n"+
			"LP-002,INV-001,-150.00,accounts_receivable,refund,\n")

	// Second row is malformed on purpose: columns shifted, date missing.
	_, err := LoadLedgerPostings(path)
	require.Error(t, err)
}

func TestLoadLedgerPostings_SignedAmounts(t *testing.T) {
	path := writeFile(t, "ledger.csv",
		"posting_id,invoice_id,posting_date,amount,account,transaction_type\n"+
			"LP-001,INV-001,2024-01-16,1500.00,accounts_receivable,debit\n"+
			"LP-002,INV-001,2024-01-20,-150.00,accounts_receivable,refund\n")

	postings, err := LoadLedgerPostings(path)

	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.True(t, postings[1].Amount.IsNegative())
	assert.Empty(t, postings[1].Status)
}

func TestValidate_FlagsDuplicatesAndBadAmounts(t *testing.T) {
	orders := []recon.Order{
		{OrderID: "O1", Amount: decimal.RequireFromString("100.00")},
		{OrderID: "O1", Amount: decimal.RequireFromString("200.00")},
		{OrderID: "O2", Amount: decimal.Zero},
	}
	invoices := []recon.Invoice{
		{InvoiceID: "I1", Amount: decimal.RequireFromString("100.00")},
		{InvoiceID: "I1", Amount: decimal.RequireFromString("-5.00")},
	}

	issues := Validate(orders, invoices)

	assert.False(t, issues.Empty())
	assert.Equal(t, []string{"O1"}, issues.DuplicateOrders)
	assert.Equal(t, []string{"I1"}, issues.DuplicateInvoices)
	assert.Len(t, issues.InvalidAmounts, 2)
}

func TestValidate_CleanData(t *testing.T) {
	orders := []recon.Order{{OrderID: "O1", Amount: decimal.RequireFromString("100.00")}}
	invoices := []recon.Invoice{{InvoiceID: "I1", Amount: decimal.RequireFromString("100.00")}}

	assert.True(t, Validate(orders, invoices).Empty())
}

func TestLoadOrders_TimestampTruncatedToCalendarDate(t *testing.T) {
	path := writeFile(t, "orders.json", `[
		{"order_id": "ORD-001", "customer_id": "CUST-001", "order_date": "2024-01-02T23:00:00Z", "amount": "1500.00", "status": "completed"}
	]`)

	orders, err := LoadOrders(path)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), orders[0].OrderDate)
}

func TestLoadedTimestamps_KeepCalendarDayCounts(t *testing.T) {
	// A late time of day on the earlier record must not shave a day off
	// the difference: 2024-01-02 to 2024-01-08 is 6 calendar days, over
	// the default 5-day tolerance.
	ordersPath := writeFile(t, "orders.json", `[
		{"order_id": "ORD-001", "customer_id": "CUST-001", "order_date": "2024-01-02T23:00:00Z", "amount": "1500.00", "status": "completed"}
	]`)
	invoicesPath := writeFile(t, "invoices.json", `[
		{"invoice_id": "INV-001", "order_id": "ORD-001", "customer_id": "CUST-001", "invoice_date": "2024-01-08", "amount": "1500.00", "status": "paid"}
	]`)

	orders, err := LoadOrders(ordersPath)
	require.NoError(t, err)
	invoices, err := LoadInvoices(invoicesPath)
	require.NoError(t, err)

	matches, _, err := recon.NewEngine(recon.DefaultConfig()).Reconcile(orders, nil, invoices, nil)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 6, matches[0].DateDiffDays)
	assert.Equal(t, recon.ExceptionTiming, matches[0].ExceptionType)
}
