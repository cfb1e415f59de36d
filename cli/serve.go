package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"smartchat/logger"
	"smartchat/server"
	"smartchat/session"
)

type serveOptions struct {
	listen string
}

func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser shell",
		Long: `Serve the chat page over HTTP. Each browser gets its own conversation,
kept in memory until it has been idle for server.session_idle_minutes.

Prometheus metrics are exposed on /metrics and a health check on /healthz.

Examples:
  smartchat serve
  smartchat serve --listen 0.0.0.0:8080
  smartchat serve --provider offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if opts.listen != "" {
				cfg.Server.Listen = opts.listen
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			st, err := a.buildStack(cfg, reg, false)
			if err != nil {
				return err
			}
			defer st.close()

			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			srv, err := server.New(session.NewManager(st.orch, cfg.SessionIdle()), server.Options{
				Listen:         cfg.Server.Listen,
				MaxUploadBytes: cfg.MaxUploadBytes(),
				Version:        Version,
				Gatherer:       reg,
				Logger:         logger.Component(st.log, "server"),
				Metrics:        st.metrics,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "Address to listen on (overrides server.listen)")
	return cmd
}
