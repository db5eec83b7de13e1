package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/observability"
	"github.com/Sumatoshi-tech/linseg/pkg/server"
)

func newServeCommand(g *globalOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the edit operations as a JSON API:
  POST /v1/resize, /v1/repair, /v1/split, /v1/merge, /v1/validate
  GET  /healthz, /readyz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.start(cmd, observability.ModeServe)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			serverCfg := rt.cfg.Server
			if cmd.Flags().Changed("host") {
				serverCfg.Host = host
			}

			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}

			bodyLimit, err := serverCfg.BodyLimit()
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(rt.providers.Meter)
			if err != nil {
				return err
			}

			srv := server.New(serverCfg, rt.logger)
			handler := server.NewHandler(server.Deps{
				Service:     rt.service,
				Tracer:      rt.providers.Tracer,
				RED:         red,
				Metrics:     rt.providers.MetricsHandler,
				ReadyChecks: []observability.ReadyCheck{srv.Ready},
				Logger:      rt.logger,
				BodyLimit:   bodyLimit,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, handler)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (default: server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: server.port)")

	return cmd
}
