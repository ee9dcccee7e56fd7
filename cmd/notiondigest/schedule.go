package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notiondigest/internal/runner"
	"notiondigest/internal/scheduler"
)

func newScheduleCmd(a *app) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Write the previous week's digest on the configured cron schedule",
		Long: `Runs until interrupted. Each firing generates the digest for the ISO week
before the firing time, so "0 9 * * MON" publishes last week's digest every Monday morning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := a.runner()
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := scheduler.New(a.cfg.Schedule.Cron, runWeek(r), a.log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if runNow {
				// A failed first run is logged and the schedule still starts.
				_ = s.RunOnce(ctx)
			}

			return s.Start(ctx)
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "Also run once immediately for the previous week")

	return cmd
}

// runWeek adapts the runner to the scheduler's job signature.
func runWeek(r *runner.Runner) scheduler.Job {
	return func(ctx context.Context, wk string) error {
		_, err := r.Run(ctx, wk)

		return err
	}
}
