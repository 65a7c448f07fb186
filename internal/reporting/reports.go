// Package reporting renders reconciliation results to files: a text
// summary, matched and exception CSVs, and a detailed JSON report. It only
// formats what the engine already produced; it never re-runs the engine.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

// Writer generates report files under a single output directory.
type Writer struct {
	outputDir string
	now       func() time.Time // overridable for tests
}

// NewWriter creates a report writer, creating the output directory if
// needed.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	return &Writer{outputDir: outputDir, now: time.Now}, nil
}

// Paths lists the files one GenerateAll call produced.
type Paths struct {
	Summary    string
	Matched    string
	Exceptions string
	Detailed   string
}

// GenerateAll writes every report for one run and returns the file paths.
// Filenames share a single timestamp so one run's reports sort together.
func (w *Writer) GenerateAll(matches []recon.ReconciliationMatch, summary recon.ReconciliationSummary) (Paths, error) {
	stamp := w.now().Format("20060102_150405")

	var paths Paths
	var err error
	if paths.Summary, err = w.writeSummary(summary, stamp); err != nil {
		return Paths{}, err
	}
	if paths.Matched, err = w.writeMatched(matches, stamp); err != nil {
		return Paths{}, err
	}
	if paths.Exceptions, err = w.writeExceptions(matches, stamp); err != nil {
		return Paths{}, err
	}
	if paths.Detailed, err = w.writeDetailed(matches, summary, stamp); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func (w *Writer) writeSummary(s recon.ReconciliationSummary, stamp string) (string, error) {
	path := filepath.Join(w.outputDir, "reconciliation_summary_"+stamp+".txt")

	matchRate := 0.0
	if s.TotalOrders > 0 {
		matchRate = float64(s.MatchedCount) / float64(s.TotalOrders) * 100
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)
	fmt.Fprintf(&b, "%s\nFINANCE OPERATIONS RECONCILIATION SUMMARY\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Report Generated: %s\n\n", w.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "OVERVIEW:\n%s\n", thin)
	fmt.Fprintf(&b, "Total Orders:           %10d\n", s.TotalOrders)
	fmt.Fprintf(&b, "Total Invoices:         %10d\n", s.TotalInvoices)
	fmt.Fprintf(&b, "Matched Records:        %10d\n", s.MatchedCount)
	fmt.Fprintf(&b, "Exception Records:      %10d\n", s.ExceptionCount)
	fmt.Fprintf(&b, "Match Rate:             %9.1f%%\n\n", matchRate)
	fmt.Fprintf(&b, "EXCEPTION BREAKDOWN:\n%s\n", thin)
	fmt.Fprintf(&b, "Timing Issues:          %10d\n", s.TimingExceptions)
	fmt.Fprintf(&b, "Amount Mismatches:      %10d\n", s.AmountMismatches)
	fmt.Fprintf(&b, "Missing Invoices:       %10d\n", s.MissingInvoices)
	fmt.Fprintf(&b, "Missing Orders:         %10d\n", s.MissingOrders)
	fmt.Fprintf(&b, "Partial Fulfillments:   %10d\n", s.PartialFulfillments)
	fmt.Fprintf(&b, "Refunds:                %10d\n", s.Refunds)
	fmt.Fprintf(&b, "Cancellations:          %10d\n\n", s.Cancellations)
	fmt.Fprintf(&b, "FINANCIAL SUMMARY:\n%s\n", thin)
	fmt.Fprintf(&b, "Total Operational Amt:  $%15s\n", s.TotalOperationalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Total Financial Amt:    $%15s\n", s.TotalFinancialAmount.StringFixed(2))
	fmt.Fprintf(&b, "Total Difference:       $%15s\n\n", s.TotalDifference.StringFixed(2))
	b.WriteString(rule + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write summary report: %w", err)
	}
	return path, nil
}

func (w *Writer) writeMatched(matches []recon.ReconciliationMatch, stamp string) (string, error) {
	matched := make([]recon.ReconciliationMatch, 0, len(matches))
	for _, m := range matches {
		if m.MatchStatus == recon.StatusMatched {
			matched = append(matched, m)
		}
	}
	path := filepath.Join(w.outputDir, "matched_records_"+stamp+".csv")
	return path, writeMatchCSV(path, matched)
}

// writeExceptions sorts exceptions by category (precedence order) and then
// by absolute difference descending, so the largest discrepancies of each
// kind lead the review queue.
func (w *Writer) writeExceptions(matches []recon.ReconciliationMatch, stamp string) (string, error) {
	exceptions := make([]recon.ReconciliationMatch, 0, len(matches))
	for _, m := range matches {
		if m.MatchStatus == recon.StatusException {
			exceptions = append(exceptions, m)
		}
	}

	rank := make(map[recon.ExceptionType]int, len(recon.AllExceptionTypes))
	for i, et := range recon.AllExceptionTypes {
		rank[et] = i
	}
	sort.SliceStable(exceptions, func(i, j int) bool {
		if rank[exceptions[i].ExceptionType] != rank[exceptions[j].ExceptionType] {
			return rank[exceptions[i].ExceptionType] < rank[exceptions[j].ExceptionType]
		}
		return exceptions[i].Difference.Abs().Cmp(exceptions[j].Difference.Abs()) > 0
	})

	path := filepath.Join(w.outputDir, "exceptions_"+stamp+".csv")
	return path, writeMatchCSV(path, exceptions)
}

func writeMatchCSV(path string, matches []recon.ReconciliationMatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{
		"order_id", "invoice_id", "match_status", "exception_type",
		"operational_amount", "financial_amount", "difference",
		"date_diff_days", "notes",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, m := range matches {
		row := []string{
			m.OrderID,
			m.InvoiceID,
			string(m.MatchStatus),
			string(m.ExceptionType),
			m.OperationalAmount.StringFixed(2),
			m.FinancialAmount.StringFixed(2),
			m.Difference.StringFixed(2),
			fmt.Sprintf("%d", m.DateDiffDays),
			m.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// detailedReport is the JSON shape of the full-detail report.
type detailedReport struct {
	RunID     string                      `json:"run_id"`
	Timestamp time.Time                   `json:"timestamp"`
	Summary   recon.ReconciliationSummary `json:"summary"`
	Matches   []recon.ReconciliationMatch `json:"matches"`
}

func (w *Writer) writeDetailed(matches []recon.ReconciliationMatch, summary recon.ReconciliationSummary, stamp string) (string, error) {
	path := filepath.Join(w.outputDir, "detailed_report_"+stamp+".json")

	report := detailedReport{
		RunID:     uuid.NewString(),
		Timestamp: w.now(),
		Summary:   summary,
		Matches:   matches,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal detailed report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write detailed report: %w", err)
	}
	return path, nil
}
