package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/sobel-mcp/internal/cache"
	"github.com/ironsheep/sobel-mcp/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP edge service",
		Long: `Serve edge detection over HTTP.

Routes:
  GET  /healthz       liveness probe
  GET  /v1/operators  available operators and palettes
  POST /v1/edges      image body in, PNG edge image out

Rendered images are cached in Redis when cache.redis_addr is set, or in process
memory when cache.memory is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}

			c, err := cache.New(ctx, cfg.Cache.RedisAddr, cfg.Cache.Memory)
			if err != nil {
				return err
			}
			defer c.Close()

			svc := httpapi.New(httpapi.Options{
				Combiner:     newCombiner(cfg, logger),
				Cache:        c,
				CacheTTL:     cfg.Cache.TTL,
				MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
				Defaults:     cfg.Edge,
				Logger:       logger.WithPrefix("http"),
			})
			return svc.ListenAndServe(ctx, cfg.HTTP.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
