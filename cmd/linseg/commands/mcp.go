package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/linseg/pkg/mcp"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

// newMCPCommand creates the MCP server command.
func newMCPCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the editor as tools that AI agents can discover and
invoke:
  - linseg_resize: move an interval edge, cascading into neighbours
  - linseg_repair: normalize a broken sequence
  - linseg_split: cut an interval in two
  - linseg_merge: join an interval with a neighbour
  - linseg_validate: check sequence invariants`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Stdout carries the protocol; logs stay on stderr as JSON.
			g.logJSON = true

			rt, err := g.start(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			red, err := observability.NewREDMetrics(rt.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Service: rt.service,
				Logger:  rt.logger,
				Metrics: red,
				Tracer:  rt.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
