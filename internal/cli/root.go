// Package cli defines the stockvault command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockvault",
	Short: "Fetch and archive daily stock price series",
	Long: `StockVault fetches daily OHLCV price series from the Alpha Vantage API,
validates them through a quality gate, and persists them crash-safely in S3
using atomic stage-then-promote updates.`,
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dailyCmd, bulkCmd, daemonCmd)
}
