package loader

import (
	"fmt"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

// Issues holds the results of the pre-flight data check. Everything here
// is a warning surfaced before the run; the engine separately hard-fails
// on duplicate primary keys.
type Issues struct {
	DuplicateOrders   []string
	DuplicateInvoices []string
	InvalidAmounts    []string
}

// Empty reports whether no issues were found.
func (i Issues) Empty() bool {
	return len(i.DuplicateOrders) == 0 && len(i.DuplicateInvoices) == 0 && len(i.InvalidAmounts) == 0
}

// Validate checks loaded orders and invoices for duplicate business keys
// and non-positive amounts.
func Validate(orders []recon.Order, invoices []recon.Invoice) Issues {
	var issues Issues

	seenOrders := make(map[string]bool, len(orders))
	for _, o := range orders {
		if seenOrders[o.OrderID] {
			issues.DuplicateOrders = append(issues.DuplicateOrders, o.OrderID)
		}
		seenOrders[o.OrderID] = true
		if !o.Amount.IsPositive() {
			issues.InvalidAmounts = append(issues.InvalidAmounts,
				fmt.Sprintf("order %s has invalid amount %s", o.OrderID, o.Amount))
		}
	}

	seenInvoices := make(map[string]bool, len(invoices))
	for _, inv := range invoices {
		if seenInvoices[inv.InvoiceID] {
			issues.DuplicateInvoices = append(issues.DuplicateInvoices, inv.InvoiceID)
		}
		seenInvoices[inv.InvoiceID] = true
		if !inv.Amount.IsPositive() {
			issues.InvalidAmounts = append(issues.InvalidAmounts,
				fmt.Sprintf("invoice %s has invalid amount %s", inv.InvoiceID, inv.Amount))
		}
	}

	return issues
}
