// Package commands implements CLI command handlers for linseg.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/config"
	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
	"github.com/Sumatoshi-tech/linseg/pkg/render"
	"github.com/Sumatoshi-tech/linseg/pkg/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool
	noColor    bool
}

// NewRootCommand creates the linseg command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "linseg",
		Short: "Linear segment editor",
		Long: `linseg edits contiguous sequences of intervals that cover [0, total_length].

Commands:
  resize    Move one edge of an interval, cascading into neighbours
  repair    Normalize a broken sequence
  split     Cut an interval in two
  merge     Join an interval with a neighbour
  validate  Check sequence invariants
  plot      Render a sequence as an HTML chart
  serve     Run the HTTP API
  mcp       Run the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./linseg.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log in JSON")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newResizeCommand(opts),
		newRepairCommand(opts),
		newSplitCommand(opts),
		newMergeCommand(opts),
		newValidateCommand(opts),
		newSchemaCommand(),
		newPlotCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// runtime is the wired application a command runs against.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	service   *edit.Service
	printer   *render.Printer
	logger    *slog.Logger
	quiet     bool
	color     bool
}

// start loads the configuration and wires telemetry and the edit service.
func (g *globalOptions) start(cmd *cobra.Command, mode observability.AppMode) (*runtime, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(g.observabilityConfig(cmd, cfg, mode))
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	editMetrics, err := observability.NewEditMetrics(providers.Meter)
	if err != nil {
		return nil, shutdownWith(providers, err)
	}

	service := edit.NewService(linear.Options{
		AllowResizeNeighbour: cfg.Editor.AllowResizeNeighbour,
		KeepZeroLength:       cfg.Editor.KeepZeroLength,
		Epsilon:              cfg.Editor.Epsilon,
	}, edit.Deps{
		Tracer:  providers.Tracer,
		Metrics: editMetrics,
		Logger:  providers.Logger,
	})

	useColor := cfg.Output.Color && !g.noColor

	return &runtime{
		cfg:       cfg,
		providers: providers,
		service:   service,
		printer:   render.NewPrinter(cmd.ErrOrStderr(), useColor),
		logger:    providers.Logger,
		quiet:     g.quiet,
		color:     useColor,
	}, nil
}

func (g *globalOptions) observabilityConfig(
	cmd *cobra.Command, cfg *config.Config, mode observability.AppMode,
) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.Prometheus = mode == observability.ModeServe
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = g.logJSON || cfg.Logging.Format == config.FormatJSON
	obsCfg.LogWriter = cmd.ErrOrStderr()

	switch {
	case g.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case g.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

// close flushes telemetry.
func (rt *runtime) close(ctx context.Context) {
	err := rt.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		rt.logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}

func shutdownWith(providers observability.Providers, err error) error {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		return fmt.Errorf("%w (shutdown: %w)", err, shutdownErr)
	}

	return err
}

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if asJSON {
				return document.NewJSONCodec().Encode(cmd.OutOrStdout(), info)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
