package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskbot/internal/app/scheduler"
	"taskbot/internal/config"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the near-due and overdue reminder sweeps once",
		Long: `Run both reminder sweeps once and exit.

Useful from cron when serve runs with --no-scheduler.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			app, err := newApplication(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			due, overdue := scheduler.New(app.reminders, scheduler.Config{}).RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "due: sent=%d failed=%d\noverdue: sent=%d failed=%d\n",
				due.Sent, due.Failed, overdue.Sent, overdue.Failed)
			return nil
		},
	}
}
