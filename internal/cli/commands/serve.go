package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapplot/internal/observability"
	"github.com/leapstack-labs/leapplot/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the equation API over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET  /healthz
  POST /equation/parse     {"latex": "..."}
  POST /equation/sample    {"latex": "...", "x_min": -10, "x_max": 10, "num_points": 500}
  GET  /equation/examples
  GET  /equation/history   (when history is enabled)
  GET  /debug/metrics      (when server.metrics is true)

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Listen on the configured address
  leapplot serve

  # Listen on all interfaces
  leapplot serve --addr 0.0.0.0:8090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Mapped onto server.addr by the config loader.
	cmd.Flags().String("addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider *observability.Provider
	if cmdCtx.Cfg.Server.Metrics {
		provider = observability.NewProvider()
		defer func() { _ = provider.Shutdown(context.Background()) }()
	}

	srv, err := server.NewServer(server.Config{
		Compiler: cmdCtx.Compiler,
		Sampling: cmdCtx.Cfg.Sampling,
		Server:   cmdCtx.Cfg.Server,
		Store:    cmdCtx.History,
		Provider: provider,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	cmdCtx.Renderer.Muted("listening on http://" + cmdCtx.Cfg.Server.Addr)
	return srv.Serve(ctx)
}
