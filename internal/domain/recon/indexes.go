package recon

import "fmt"

// IntegrityError reports an upstream contract violation: data that the
// loader promised to be well-formed turned out not to be. The run aborts
// before any matches are produced.
type IntegrityError struct {
	Entity string // "order" or "invoice"
	ID     string // the offending primary key
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: duplicate %s id %q", e.Entity, e.ID)
}

// Indexes holds the O(1) lookup structures one reconciliation run works
// from. Shipments and postings legitimately repeat their foreign key, so
// those indexes hold slices in input order.
type Indexes struct {
	OrdersByID        map[string]*Order
	InvoicesByID      map[string]*Invoice
	InvoiceByOrderID  map[string]*Invoice
	ShipmentsByOrder  map[string][]*Shipment
	PostingsByInvoice map[string][]*LedgerPosting
}

// BuildIndexes constructs the lookup structures in a single pass over each
// input sequence. A duplicate order_id or invoice_id is an IntegrityError.
// When two invoices reference the same order_id, the later one wins the
// order lookup slot; the displaced invoice is still indexed by its own id
// and surfaces downstream as missing_order.
func BuildIndexes(orders []Order, shipments []Shipment, invoices []Invoice, postings []LedgerPosting) (*Indexes, error) {
	idx := &Indexes{
		OrdersByID:        make(map[string]*Order, len(orders)),
		InvoicesByID:      make(map[string]*Invoice, len(invoices)),
		InvoiceByOrderID:  make(map[string]*Invoice, len(invoices)),
		ShipmentsByOrder:  make(map[string][]*Shipment),
		PostingsByInvoice: make(map[string][]*LedgerPosting),
	}

	for i := range orders {
		o := &orders[i]
		if _, exists := idx.OrdersByID[o.OrderID]; exists {
			return nil, &IntegrityError{Entity: "order", ID: o.OrderID}
		}
		idx.OrdersByID[o.OrderID] = o
	}

	for i := range invoices {
		inv := &invoices[i]
		if _, exists := idx.InvoicesByID[inv.InvoiceID]; exists {
			return nil, &IntegrityError{Entity: "invoice", ID: inv.InvoiceID}
		}
		idx.InvoicesByID[inv.InvoiceID] = inv
		if inv.OrderID != "" {
			idx.InvoiceByOrderID[inv.OrderID] = inv
		}
	}

	for i := range shipments {
		s := &shipments[i]
		idx.ShipmentsByOrder[s.OrderID] = append(idx.ShipmentsByOrder[s.OrderID], s)
	}

	for i := range postings {
		p := &postings[i]
		idx.PostingsByInvoice[p.InvoiceID] = append(idx.PostingsByInvoice[p.InvoiceID], p)
	}

	return idx, nil
}
