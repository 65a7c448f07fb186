package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomain_TimestampTruncatedToCalendarDate(t *testing.T) {
	req := ReconcileRequest{
		Orders: []OrderRecord{
			{OrderID: "ORD-1001", CustomerID: "CUST-01", OrderDate: "2024-01-02T23:00:00Z", Amount: "1500.00", Status: "delivered"},
		},
		Invoices: []InvoiceRecord{
			{InvoiceID: "INV-2001", OrderID: "ORD-1001", CustomerID: "CUST-01", InvoiceDate: "2024-01-08", Amount: "1500.00", Status: "paid"},
		},
	}

	orders, _, invoices, _, err := req.ToDomain()

	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, invoices, 1)
	// Midnight UTC on both sides keeps day counts calendar-based: this
	// pair is 6 days apart, not 5.
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), orders[0].OrderDate)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), invoices[0].InvoiceDate)
}
