package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notiondigest/internal/digest"
	"notiondigest/internal/formatter"
	"notiondigest/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	var weekFlag, dateFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a week without writing a digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wk, err := resolveWeek(weekFlag, dateFlag, time.Now())
			if err != nil {
				return err
			}

			if err := a.cfg.ValidateForFetch(); err != nil {
				return err
			}

			settings := a.cfg.Settings()

			result, err := a.client().FetchDatabase(cmd.Context(), models.FetchParams{
				WeekNumber: wk,
				APIKey:     settings.NotionAPIKey,
				DatabaseID: settings.NotionDatabaseID,
			})
			if err != nil {
				return err
			}

			if len(result.Results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries found for %s\n", wk)

				return nil
			}

			grouped := digest.GroupEntriesByTag(result.Results)

			var rows [][]string

			for _, tag := range grouped.Tags() {
				for _, page := range grouped.Entries(tag) {
					rows = append(rows, []string{tag, page.Title(), page.URL()})
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Table([]string{"Tag", "Title", "URL"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries in %d groups for %s\n", grouped.Total(), grouped.Len(), wk)

			return nil
		},
	}

	cmd.Flags().StringVarP(&weekFlag, "week", "w", "", "ISO week to list, e.g. 2025-W21 (default: current week)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "List the week containing this date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("week", "date")

	return cmd
}
