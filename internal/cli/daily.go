package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"StockVault/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Fetch the latest daily bars for all configured symbols",
	Run: func(cmd *cobra.Command, args []string) {
		runOnce(pipeline.ModeDaily)
	},
}

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Fetch full history and write per-day artifacts",
	Long: `Fetch up to ~20 years of history per symbol and additionally write one
object per trading day. API requests are paced by the configured rate limit.`,
	Run: func(cmd *cobra.Command, args []string) {
		runOnce(pipeline.ModeBulk)
	},
}

func runOnce(mode pipeline.Mode) {
	ctx := context.Background()
	app, err := Setup(ctx)
	if err != nil {
		fatal(err)
	}

	if mode == pipeline.ModeBulk {
		app.Runner.SetRateLimit(app.Cfg.Bulk.RequestsPerMinute)
	}

	summary := app.Runner.Run(ctx, app.Cfg.Symbols, mode)
	app.Close()
	os.Exit(summary.ExitCode())
}

func fatal(err error) {
	os.Stderr.WriteString("fatal: " + err.Error() + "\n")
	os.Exit(1)
}
