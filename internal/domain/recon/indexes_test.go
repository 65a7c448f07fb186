package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexes_GroupsForeignKeys(t *testing.T) {
	orders := []Order{makeOrder("O1", "100.00", day(2024, 1, 1), "completed")}
	shipments := []Shipment{
		{ShipmentID: "S1", OrderID: "O1", ShipmentDate: day(2024, 1, 2), ShippedAmount: dec("60.00"), Status: "delivered"},
		{ShipmentID: "S2", OrderID: "O1", ShipmentDate: day(2024, 1, 3), ShippedAmount: dec("40.00"), Status: "delivered"},
	}
	invoices := []Invoice{makeInvoice("I1", "O1", "100.00", day(2024, 1, 1), "paid")}
	postings := []LedgerPosting{
		makePosting("LP-1", "I1", "100.00", TxnDebit, day(2024, 1, 4)),
		makePosting("LP-2", "I1", "-10.00", TxnRefund, day(2024, 1, 5)),
	}

	idx, err := BuildIndexes(orders, shipments, invoices, postings)

	require.NoError(t, err)
	assert.Len(t, idx.ShipmentsByOrder["O1"], 2)
	assert.Len(t, idx.PostingsByInvoice["I1"], 2)
	assert.Equal(t, "I1", idx.InvoiceByOrderID["O1"].InvoiceID)
	assert.Equal(t, "O1", idx.OrdersByID["O1"].OrderID)
}

func TestBuildIndexes_DuplicateInvoiceID_Fails(t *testing.T) {
	invoices := []Invoice{
		makeInvoice("I1", "O1", "100.00", day(2024, 1, 1), "paid"),
		makeInvoice("I1", "O2", "200.00", day(2024, 1, 2), "paid"),
	}

	_, err := BuildIndexes(nil, nil, invoices, nil)

	require.Error(t, err)
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "invoice", integrityErr.Entity)
	assert.Equal(t, "I1", integrityErr.ID)
}

func TestBuildIndexes_LaterInvoiceWinsOrderSlot(t *testing.T) {
	// Two distinct invoices referencing the same order: the later one
	// takes the order lookup slot, the earlier one stays reachable by its
	// own id and becomes an orphan downstream.
	invoices := []Invoice{
		makeInvoice("I1", "O1", "100.00", day(2024, 1, 1), "paid"),
		makeInvoice("I2", "O1", "150.00", day(2024, 1, 2), "paid"),
	}

	idx, err := BuildIndexes(nil, nil, invoices, nil)

	require.NoError(t, err)
	assert.Equal(t, "I2", idx.InvoiceByOrderID["O1"].InvoiceID)
	assert.Contains(t, idx.InvoicesByID, "I1")
}

func TestBuildIndexes_InvoiceWithoutOrderReference(t *testing.T) {
	invoices := []Invoice{makeInvoice("I1", "", "100.00", day(2024, 1, 1), "paid")}

	idx, err := BuildIndexes(nil, nil, invoices, nil)

	require.NoError(t, err)
	assert.Empty(t, idx.InvoiceByOrderID)
	assert.Contains(t, idx.InvoicesByID, "I1")
}
