package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/monox/analysis"
	"github.com/kbukum/monox/bootstrap"
	"github.com/kbukum/monox/config"
	"github.com/kbukum/monox/observability"
)

// RootOptions holds the command-line flags.
type RootOptions struct {
	File string

	// loaderOpts lets tests point the loader at fixture files.
	loaderOpts []config.LoaderOption
}

// NewRootCommand creates the monox command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monox",
		Short: "Histogram a per-event observable over an event file",
		Long: `Read newline-delimited JSON events, apply the object selection and
print a histogram of the configured per-event observable.

Settings other than the input file come from monox.yml / config.yml and
MONOX_* environment variables, for example MONOX_ANALYSIS_PARTITIONS=8.

Example:
  monox
  monox -f events.jsons.gz`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", analysis.DefaultInput, "input file of JSON events, one per line")
	return cmd
}

func run(cmd *cobra.Command, opts *RootOptions) error {
	var cfg Config
	if err := config.LoadConfig(ServiceName, &cfg, opts.loaderOpts...); err != nil {
		return err
	}
	if cmd.Flags().Changed("file") || cfg.Analysis.Input == "" {
		cfg.Analysis.Input = opts.File
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	telemetry := observability.NewProvider(app.Name, app.Version, cfg.Environment, cfg.Telemetry)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		job, err := analysis.NewJob(cfg.Analysis, analysis.WithLogger(app.Logger.WithComponent("analysis")))
		if err != nil {
			return err
		}
		report, err := job.Run(ctx)
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout(), cfg.Analysis.Output)
	})
}
