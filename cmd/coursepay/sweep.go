package main

import (
	"fmt"

	"github.com/DanielPopoola/coursepay/internal/worker"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reconcile stale pending transactions once and exit",
	Long: `Run a single pass of the stale sweeper.

Transactions still pending after worker.poll_after are polled at their
provider. Those older than worker.cancel_after are cancelled unless the
provider could not be reached. Suitable for a cron job when serve runs
with --no-sweeper.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	sweeper := worker.NewStaleSweeper(app.repo, app.engine, cfg.Worker, logger)
	stats, err := sweeper.RunOnce(cmd.Context())
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d resolved=%d cancelled=%d failed=%d\n",
		stats.Scanned, stats.Resolved, stats.Cancelled, stats.Failed)
	return nil
}
