package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/sobel-mcp/internal/server"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdin/stdout",
		Long:  `Serve newline-delimited JSON-RPC 2.0 requests from stdin and write responses to stdout. Logs go to stderr.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd)
		},
	}
}

func runMCP(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	srv := server.New(
		server.WithCombiner(newCombiner(cfg, logger)),
		server.WithEdgeDefaults(cfg.Edge),
		server.WithLogger(logger.WithPrefix("mcp")),
		server.WithVersion(version),
	)

	logger.Info("MCP server starting", "version", version, "workers", cfg.Gradient.Workers)
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
