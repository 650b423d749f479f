/*
root.go - CLI entry point

PURPOSE:
  Defines the root cobra command and wires the subcommands. The binary
  has three modes: serve (HTTP API), report (one-shot report to stdout)
  and migrate (copy invoices between databases).

SEE ALSO:
  - serve.go: HTTP server
  - report.go: One-shot reports
  - migrate.go: Data migration
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/commission-engine/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "commission-engine",
	Short: "Arrears sales-commission reporting engine",
	Long: `Commission Engine computes monthly sales-commission reports over
collected invoices: arrears aggregation with automatic discount rules,
current-month projection, and rolling trend history.

Run "serve" to expose the reports over HTTP, or "report" to print one
to stdout.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
