package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
	"github.com/eshaffer321/finops-recon/internal/infrastructure/config"
)

// ConfigPathFromArgs pre-scans the raw arguments for -config so the file
// can be loaded before flag.Parse runs; the remaining flag defaults come
// from that file.
func ConfigPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return "config.yaml"
}

// RunFlags are the command line flags for a reconciliation run.
type RunFlags struct {
	ConfigFile      string
	OrdersPath      string
	ShipmentsPath   string
	InvoicesPath    string
	LedgerPath      string
	OutputDir       string
	AmountTolerance string
	TimingTolerance int
	Verbose         bool
}

// ParseRunFlags parses the reconcile command flags. Defaults come from the
// loaded configuration so a config file and flags compose naturally.
func ParseRunFlags(cfg *config.Config) RunFlags {
	var flags RunFlags
	// The value is consumed by ConfigPathFromArgs before flag.Parse runs;
	// registering it here keeps it in -help and out of "flag provided but
	// not defined" errors.
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.OrdersPath, "orders", cfg.Inputs.Orders, "Path to orders CSV/JSON file")
	flag.StringVar(&flags.ShipmentsPath, "shipments", cfg.Inputs.Shipments, "Path to shipments CSV/JSON file")
	flag.StringVar(&flags.InvoicesPath, "invoices", cfg.Inputs.Invoices, "Path to invoices CSV/JSON file")
	flag.StringVar(&flags.LedgerPath, "ledger", cfg.Inputs.Ledger, "Path to ledger postings CSV/JSON file")
	flag.StringVar(&flags.OutputDir, "output-dir", cfg.Reports.OutputDir, "Directory for output reports")
	flag.StringVar(&flags.AmountTolerance, "amount-tolerance", cfg.Reconciliation.AmountTolerance, "Maximum acceptable amount difference for matching")
	flag.IntVar(&flags.TimingTolerance, "timing-tolerance", cfg.Reconciliation.TimingToleranceDays, "Maximum days difference for timing exceptions")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()
	return flags
}

// EngineConfig converts the flag values into engine tolerances. The amount
// tolerance stays a string until here so no float rounding sneaks in.
func (f RunFlags) EngineConfig() (recon.Config, error) {
	tolerance, err := decimal.NewFromString(f.AmountTolerance)
	if err != nil {
		return recon.Config{}, fmt.Errorf("invalid amount tolerance %q: %w", f.AmountTolerance, err)
	}
	if tolerance.IsNegative() {
		return recon.Config{}, fmt.Errorf("amount tolerance must not be negative, got %s", tolerance)
	}
	if f.TimingTolerance < 0 {
		return recon.Config{}, fmt.Errorf("timing tolerance must not be negative, got %d", f.TimingTolerance)
	}
	return recon.Config{
		AmountTolerance:     tolerance,
		TimingToleranceDays: f.TimingTolerance,
	}, nil
}
