package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailwatch/internal/store"
	"github.com/nhle/mailwatch/internal/ui"
)

func newHistoryCmd(opts *rootOptions, logger *log.Logger) *cobra.Command {
	var (
		job    string
		query  string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show important messages recorded by previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts, logger)
			if err != nil {
				return err
			}

			filter := store.AlertFilter{Limit: limit, Offset: offset}
			if job != "" {
				filter.Job = &job
			}
			if query != "" {
				filter.Query = &query
			}

			alerts, err := a.Alerts(cmd.Context(), filter)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.NewLayout(0).RenderAlerts(alerts))
			return nil
		},
	}

	cmd.Flags().StringVar(&job, "job", "", "only show alerts of this job")
	cmd.Flags().StringVarP(&query, "query", "q", "", "match sender or subject")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of alerts")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many alerts")

	return cmd
}
