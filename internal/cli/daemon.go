package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockVault/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the daily fetch on a cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		app, err := Setup(ctx)
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		sched := scheduler.NewScheduler(ctx, app.Runner, app.Cfg.Symbols, app.Log)
		if err := sched.Register(app.Cfg.Schedule.DailyCron); err != nil {
			fatal(err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			app.Log.Info().Msg("RUN_ON_START enabled, executing daily fetch now")
			go sched.RunNow()
		}

		app.Log.Info().Str("cron", app.Cfg.Schedule.DailyCron).Msg("daemon running")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		app.Log.Info().Msg("shutdown signal received, stopping")
		cancel()
	},
}
