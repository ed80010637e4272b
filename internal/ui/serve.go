package ui

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/metrics"
	"github.com/javiermolinar/semana/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Start a JSON API over the same data the CLI and TUI use.

Requests are applied one at a time. GET /metrics exposes Prometheus
metrics unless disabled in the config or with --no-metrics.
The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  semana serve
  semana serve --addr 127.0.0.1:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var metricsHandler http.Handler
			if a.config.Server.Metrics && !noMetrics {
				a.metrics = metrics.New()
				metricsHandler = a.metrics.Handler()
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			if addr == "" {
				addr = a.config.Server.Addr
			}
			srv := server.New(a.engine, server.Options{
				Addr:    addr,
				Logger:  a.logger,
				Metrics: metricsHandler,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	return cmd
}
