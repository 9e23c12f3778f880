package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailwatch/internal/app"
	"github.com/nhle/mailwatch/internal/model"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	logger := newLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error("mailwatch failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

// newLogger returns the stderr logger. Stdout carries the report only.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "mailwatch",
	})
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mailwatch",
		Short:         "Report new and important unread Gmail messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(opts, logger),
		newJobsCmd(opts, logger),
		newHistoryCmd(opts, logger),
		newSetupCmd(opts, logger),
	)

	return root
}

// loadApp reads the config and builds the application.
func loadApp(opts *rootOptions, logger *log.Logger) (*app.App, error) {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "path", opts.configPath, "jobs", cfg.JobNames())
	return app.New(cfg, logger, os.Stdout), nil
}
