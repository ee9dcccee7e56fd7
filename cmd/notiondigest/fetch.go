package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"notiondigest/internal/history"
	"notiondigest/internal/runner"
	"notiondigest/internal/week"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		weekFlag string
		dateFlag string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the digest for a week and write it to the output directory",
		Example: `  notiondigest fetch --week 2025-W21
  notiondigest fetch --date 2025-05-20 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wk, err := resolveWeek(weekFlag, dateFlag, time.Now())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r, closeFn, err := a.runner()
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := r.WithForce(force).Run(ctx, wk)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to fetch Notion content: %s\n", out.Result.ErrorMessage)

				return &reportedError{err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", filepath.Base(out.Path), out.Status)

			return nil
		},
	}

	cmd.Flags().StringVarP(&weekFlag, "week", "w", "", "ISO week to fetch, e.g. 2025-W21 (default: current week)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Fetch the week containing this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the digest even when nothing changed")
	cmd.MarkFlagsMutuallyExclusive("week", "date")

	return cmd
}

// resolveWeek picks the week from --week, --date or the current date.
func resolveWeek(weekFlag, dateFlag string, now time.Time) (string, error) {
	switch {
	case weekFlag != "":
		return week.Validate(weekFlag)
	case dateFlag != "":
		return week.Parse(dateFlag)
	default:
		return week.Current(now), nil
	}
}

// runner builds a runner for the loaded config. The returned func releases the run history.
func (a *app) runner() (*runner.Runner, func(), error) {
	store, err := a.openHistory()
	if err != nil {
		return nil, nil, err
	}

	var rec runner.Recorder

	closeFn := func() {}

	if store != nil {
		rec = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				a.log.Warn("Failed to close run history", "error", err)
			}
		}
	}

	return runner.New(a.cfg, a.client(), rec, a.log), closeFn, nil
}

var _ runner.Recorder = (*history.Store)(nil)
