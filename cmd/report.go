/*
report.go - One-shot report command

PURPOSE:
  Computes a report against the SQLite database and prints it to stdout
  as JSON, for cron jobs and quick inspection without running the server.

EXAMPLES:
  # Arrears report for the month before the current one
  commission-engine report

  # Specific month, or December of a year
  commission-engine report --month=2026-07
  commission-engine report --year=2025

  # Other report kinds
  commission-engine report --kind=projection
  commission-engine report --kind=history --months=6
  commission-engine report --kind=full
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/config"
	"github.com/warp/commission-engine/store/sqlite"
)

var (
	reportDB     string
	reportKind   string
	reportMonth  string
	reportYear   int
	reportMonths int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a commission report to stdout",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportDB, "db", "", "SQLite database path (default from DB_PATH env)")
	reportCmd.Flags().StringVar(&reportKind, "kind", "month", "Report kind: month, projection, history, full")
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Target month as YYYY-MM")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "Target December of this year")
	reportCmd.Flags().IntVar(&reportMonths, "months", 0, "History window length")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if reportDB == "" {
		reportDB = cfg.DBPath
	}
	if reportMonths == 0 {
		reportMonths = cfg.DefaultHistoryMonths
	}

	store, err := sqlite.New(reportDB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	engine := commission.NewEngine(store)
	ctx := cmd.Context()
	target := commission.Target{Month: reportMonth, Year: reportYear}

	var out any
	switch reportKind {
	case "month":
		out, err = engine.ComputeMonth(ctx, target)
	case "projection":
		out, err = engine.ProjectCurrentMonth(ctx)
	case "history":
		out, err = engine.History(ctx, reportMonths)
	case "full":
		out, err = engine.MonthlyReport(ctx, target)
	default:
		return fmt.Errorf("unknown report kind %q", reportKind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
