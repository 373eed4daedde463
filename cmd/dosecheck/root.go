package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SuperSnake427/DosecheckDashboard/internal/app"
	"github.com/SuperSnake427/DosecheckDashboard/internal/config"
	"github.com/SuperSnake427/DosecheckDashboard/internal/infrastructure"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile   string
	source       string
	groupingFile string
	lenientDates bool
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "dosecheck",
		Short: "DoseCheck drug-checking results dashboard",
		Long: `dosecheck loads the published DoseCheck results sheet, folds the tested
substances into drug categories and presents three summaries: how often each
category was found, a quarterly time series, and the share of checks per
testing site.

Run "dosecheck serve" for the web dashboard, or render, export and check for
one-off runs against the same dataset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML config file (default: config.yaml or configs/config.yaml)")
	flags.StringVarP(&opts.source, "source", "s", "", "dataset source: URL, s3://bucket/key, sheets://id[/range] or file path")
	flags.StringVarP(&opts.groupingFile, "grouping", "g", "", "YAML drug grouping file (default: built-in grouping)")
	flags.BoolVar(&opts.lenientDates, "lenient-dates", false, "drop rows with unparseable check dates instead of failing")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newExportCmd(opts),
		newCheckCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the config, applies flag overrides and builds the logger.
// Logs go to stderr so stdout stays usable for command output. The command
// context gets a trace ID so one run's log lines can be correlated.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}

	if o.source != "" {
		cfg.Source.ID = o.source
	}
	if o.groupingFile != "" {
		cfg.Dataset.GroupingFile = o.groupingFile
	}
	if o.lenientDates {
		cfg.Dataset.DatePolicy = config.DatePolicyLenient
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))

	o.cfg = cfg
	o.logger = logger
	return nil
}

// application wires an Application for one-off commands. The returned
// function flushes telemetry.
func (o *globalOptions) application() (*app.Application, func(), error) {
	a, err := app.NewApplication(o.cfg, o.logger)
	if err != nil {
		return nil, nil, err
	}
	return a, func() { a.Shutdown(context.Background()) }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skips config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
