// Package cli implements the sobel-mcp command-line interface.
//
// # Commands
//
//   - mcp: Run the MCP tool server on stdin/stdout (the default with no subcommand)
//   - detect: Compute an edge image from a file and save it
//   - serve: Run the HTTP edge service
//   - version: Print build information
//
// # Configuration
//
// Every command reads an optional TOML file given by --config, then applies
// SOBEL_MCP_* environment overrides (see package config).
//
// # Logging
//
// Logs go to stderr so stdout stays free for the MCP protocol and for piping.
// --verbose (-v) forces debug level; otherwise log.level from the configuration
// applies. Loggers are passed through context.Context.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/sobel-mcp/internal/config"
	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

const appName = "sobel-mcp"

var (
	version = "dev"     // semantic version (e.g., "v1.2.3")
	commit  = "unknown" // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version and the
// version command. main calls it with values injected via ldflags.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the sobel-mcp CLI and returns an error if any command fails.
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Configuration and the logger are resolved
// in PersistentPreRunE and attached to the command context.
func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "Sobel edge-magnitude tools over MCP, HTTP and the command line",
		Long:          `sobel-mcp computes clipped Sobel edge-magnitude images from grayscale planes. It runs as an MCP tool server on stdio (the default), as an HTTP service, or as a one-shot command-line filter.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level, err := resolveLevel(cfg.Log.Level, verbose)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = withLogger(ctx, newLogger(cmd.ErrOrStderr(), level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(newMCPCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// withConfig returns a new context with cfg attached.
func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the configuration from ctx, or the defaults if none is attached.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// newCombiner builds the edge-magnitude combiner described by cfg.
func newCombiner(cfg config.Config, logger *log.Logger) *sobel.Combiner {
	var gradient sobel.Gradient = sobel.Scalar{}
	if cfg.Gradient.Workers != 1 {
		gradient = sobel.Banded{Workers: cfg.Gradient.Workers}
	}
	return sobel.NewCombiner(
		sobel.WithGradient(gradient),
		sobel.WithAllocator(sobel.NewPoolAllocator(cfg.Scratch.MaxBytes)),
		sobel.WithLogger(logger.WithPrefix("sobel")),
	)
}
