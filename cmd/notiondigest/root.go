package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notiondigest/internal/config"
	"notiondigest/internal/history"
	"notiondigest/internal/logger"
	"notiondigest/internal/notion"
)

// app carries the state shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	cfgPath  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "notiondigest",
		Short:         "Build weekly Markdown digests from a Notion bookmark database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// config init must work before a valid file exists.
			if cmd.Annotations["skipConfig"] == "true" {
				a.log = logger.NewLoggerWithOptions(cmd.ErrOrStderr(), a.logLevel, "text")

				return nil
			}

			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", config.DefaultPath(), "Path to the configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newFetchCmd(a),
		newListCmd(a),
		newVerifyCmd(a),
		newHistoryCmd(a),
		newScheduleCmd(a),
		newSignCmd(a),
		newFormatCmd(a),
		newConfigCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	a.cfg = cfg
	a.log = logger.NewLoggerWithOptions(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	a.log.Debug("Configuration loaded", "path", a.cfgPath, "config", cfg.String())

	return nil
}

func (a *app) client() *notion.Client {
	return notion.NewClient(a.cfg.Notion.BaseURL, a.cfg.Timeout(), a.log)
}

// openHistory opens the run history, or returns nil when it is disabled.
func (a *app) openHistory() (*history.Store, error) {
	if a.cfg.History.Path == "" {
		return nil, nil
	}

	store, err := history.Open(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	return store, nil
}
