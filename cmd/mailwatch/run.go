package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/ui"
)

func newRunCmd(opts *rootOptions, logger *log.Logger) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "run [job]",
		Short: "Check the mailbox once and print the report as JSON",
		Long: "Searches the configured folder for unread messages, reports the ones\n" +
			"not seen by the previous run and flags the important ones. The job\n" +
			"defaults to \"" + model.JobCheck + "\".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job := model.JobCheck
			if len(args) == 1 {
				job = args[0]
			}

			a, err := loadApp(opts, logger)
			if err != nil {
				return err
			}

			report, err := a.RunJob(cmd.Context(), job)
			if err != nil {
				return err
			}

			if summary {
				fmt.Fprintln(os.Stderr, ui.NewLayout(0).RenderSummary(report))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "also print a human-readable summary to stderr")

	return cmd
}

func newJobsCmd(opts *rootOptions, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List configured jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(opts, logger)
			if err != nil {
				return err
			}
			for _, job := range a.Config().Jobs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", job.Name, job.StatePath)
			}
			return nil
		},
	}
}
