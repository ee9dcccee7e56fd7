package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"notiondigest/internal/formatter"
	"notiondigest/internal/history"
)

var errHistoryDisabled = errors.New("run history is disabled, set history.path in the config")

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit    int
		weekFlag string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent digest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}

			if store == nil {
				return errHistoryDisabled
			}
			defer store.Close()

			var runs []history.Run
			if weekFlag != "" {
				runs, err = store.ListByWeek(weekFlag)
			} else {
				runs, err = store.List(limit)
			}

			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Table(
				[]string{"Started", "Week", "Status", "Entries", "Result", "ID"},
				historyRows(runs),
			))

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 = all)")
	cmd.Flags().StringVarP(&weekFlag, "week", "w", "", "Only show runs for this ISO week")

	return cmd
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))

	for _, run := range runs {
		result := run.WriteStatus + " " + run.OutputPath
		if run.Status == history.StatusError {
			result = run.Error
		}

		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}

		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.Week,
			run.Status,
			strconv.Itoa(run.Entries),
			result,
			id,
		})
	}

	return rows
}
