package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"followexport/server"
)

func (a *App) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve export runs over HTTP",
		Long: `Serve starts an HTTP server:

  POST /export   {"username": "alice"} runs one export
  GET  /metrics  Prometheus metrics
  GET  /healthz  liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.fullDependencies(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			if !d.cfg.Log.Verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := server.NewRouter(d.orchestrator, d.source.Name(), server.NewMetrics(), d.logger)
			return server.Serve(ctx, d.cfg.Server.Listen, router, d.logger)
		},
	}

	cmd.Flags().String("listen", ":5555", "address the HTTP server listens on")

	return cmd
}
