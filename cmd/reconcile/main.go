package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eshaffer321/finops-recon/internal/cli"
	"github.com/eshaffer321/finops-recon/internal/domain/recon"
	"github.com/eshaffer321/finops-recon/internal/infrastructure/config"
	"github.com/eshaffer321/finops-recon/internal/infrastructure/logging"
	"github.com/eshaffer321/finops-recon/internal/loader"
	"github.com/eshaffer321/finops-recon/internal/reporting"
)

func main() {
	// The config file feeds the flag defaults, so resolve it first.
	cfg := config.LoadOrEnvWithPath(cli.ConfigPathFromArgs(os.Args[1:]))
	flags := cli.ParseRunFlags(cfg)

	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "reconcile")

	engineCfg, err := flags.EngineConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cli.PrintHeader()

	// Load all four record sets
	logger.Info("loading input files",
		slog.String("orders", flags.OrdersPath),
		slog.String("invoices", flags.InvoicesPath),
	)
	orders, err := loader.LoadOrders(flags.OrdersPath)
	if err != nil {
		logger.Error("failed to load orders", slog.String("error", err.Error()))
		os.Exit(1)
	}
	shipments, err := loader.LoadShipments(flags.ShipmentsPath)
	if err != nil {
		logger.Error("failed to load shipments", slog.String("error", err.Error()))
		os.Exit(1)
	}
	invoices, err := loader.LoadInvoices(flags.InvoicesPath)
	if err != nil {
		logger.Error("failed to load invoices", slog.String("error", err.Error()))
		os.Exit(1)
	}
	postings, err := loader.LoadLedgerPostings(flags.LedgerPath)
	if err != nil {
		logger.Error("failed to load ledger postings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Debug("records loaded",
		slog.Int("orders", len(orders)),
		slog.Int("shipments", len(shipments)),
		slog.Int("invoices", len(invoices)),
		slog.Int("ledger_postings", len(postings)),
	)

	// Pre-flight data check
	fmt.Println("\nValidating input data...")
	cli.PrintValidationIssues(loader.Validate(orders, invoices))

	// Run reconciliation
	engine := recon.NewEngine(engineCfg)
	matches, summary, err := engine.Reconcile(orders, shipments, invoices, postings)
	if err != nil {
		logger.Error("reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Write reports
	writer, err := reporting.NewWriter(flags.OutputDir)
	if err != nil {
		logger.Error("failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	paths, err := writer.GenerateAll(matches, summary)
	if err != nil {
		logger.Error("failed to write reports", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("\nReports generated:")
	cli.PrintReportPaths(paths)
	cli.PrintSummary(summary)

	if summary.ExceptionCount > 0 {
		logger.Warn("run finished with exceptions", slog.Int("exceptions", summary.ExceptionCount))
		return
	}
	logger.Info("run finished clean", slog.Int("matched", summary.MatchedCount))
}
