package cli

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
	"github.com/eshaffer321/finops-recon/internal/loader"
	"github.com/eshaffer321/finops-recon/internal/reporting"
)

// PrintHeader prints the application header
func PrintHeader() {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("Finance Operations Reconciliation Pipeline")
	fmt.Println(strings.Repeat("=", 70))
}

// PrintValidationIssues prints pre-flight data warnings. The engine will
// still refuse duplicate keys; this just tells the operator up front.
func PrintValidationIssues(issues loader.Issues) {
	if issues.Empty() {
		fmt.Println("  no data validation issues found")
		return
	}
	if len(issues.DuplicateOrders) > 0 {
		fmt.Printf("  warning: duplicate order ids: %s\n", strings.Join(issues.DuplicateOrders, ", "))
	}
	if len(issues.DuplicateInvoices) > 0 {
		fmt.Printf("  warning: duplicate invoice ids: %s\n", strings.Join(issues.DuplicateInvoices, ", "))
	}
	for _, msg := range issues.InvalidAmounts {
		fmt.Printf("  warning: %s\n", msg)
	}
}

// PrintReportPaths prints where each generated report landed.
func PrintReportPaths(paths reporting.Paths) {
	fmt.Printf("  summary report:    %s\n", paths.Summary)
	fmt.Printf("  matched report:    %s\n", paths.Matched)
	fmt.Printf("  exceptions report: %s\n", paths.Exceptions)
	fmt.Printf("  detailed report:   %s\n", paths.Detailed)
}

// PrintSummary prints the reconciliation summary to the console.
func PrintSummary(s recon.ReconciliationSummary) {
	rule := strings.Repeat("=", 60)
	fmt.Println("\n" + rule)
	fmt.Println("RECONCILIATION SUMMARY")
	fmt.Println(rule)
	fmt.Printf("\nTotal Orders:           %d\n", s.TotalOrders)
	fmt.Printf("Total Invoices:         %d\n", s.TotalInvoices)
	fmt.Printf("Matched Records:        %d\n", s.MatchedCount)
	fmt.Printf("Exception Records:      %d\n", s.ExceptionCount)
	fmt.Println("\nException Breakdown:")
	fmt.Printf("  - Timing Issues:      %d\n", s.TimingExceptions)
	fmt.Printf("  - Amount Mismatches:  %d\n", s.AmountMismatches)
	fmt.Printf("  - Missing Invoices:   %d\n", s.MissingInvoices)
	fmt.Printf("  - Missing Orders:     %d\n", s.MissingOrders)
	fmt.Printf("  - Partial Fulfillment:%d\n", s.PartialFulfillments)
	fmt.Printf("  - Refunds:            %d\n", s.Refunds)
	fmt.Printf("  - Cancellations:      %d\n", s.Cancellations)
	fmt.Printf("\nTotal Operational:      $%s\n", s.TotalOperationalAmount.StringFixed(2))
	fmt.Printf("Total Financial:        $%s\n", s.TotalFinancialAmount.StringFixed(2))
	fmt.Printf("Total Difference:       $%s\n", s.TotalDifference.StringFixed(2))
	fmt.Println(rule + "\n")
}
