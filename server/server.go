// Package server is the browser shell: an HTML page plus a small JSON API
// over session.Session, one session per browser cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"smartchat/metrics"
	"smartchat/session"
)

const (
	sessionCookie = "smartchat_session"
	sessionKey    = "session"

	DefaultMaxUploadBytes int64 = 20 << 20
	shutdownTimeout             = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Listen         string
	MaxUploadBytes int64
	Version        string
	// Gatherer backs GET /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
}

// Server serves the browser shell.
type Server struct {
	opts     Options
	sessions *session.Manager
	log      zerolog.Logger
	metrics  *metrics.Metrics
	engine   *gin.Engine
	page     *template.Template
}

// New builds the router. Call Handler for tests or Run to listen.
func New(sessions *session.Manager, opts Options) (*Server, error) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		opts:     opts,
		sessions: sessions,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		page:     page,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.recordMetrics())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	chat := r.Group("/", s.withSession(), s.limitUploads())
	chat.GET("/", s.index)
	chat.POST("/chat", s.submitForm)
	chat.POST("/image", s.attachImage)
	chat.POST("/image/delete", s.discardImage)
	chat.POST("/dataset", s.loadDataset)
	chat.POST("/dataset/delete", s.clearDataset)
	chat.POST("/reset", s.reset)
	chat.GET("/turns/:index/image", s.turnImage)
	chat.GET("/turns/:index/chart.png", s.turnChart)

	api := chat.Group("/api")
	api.GET("/turns", s.listTurns)
	api.POST("/chat", s.submitJSON)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", s.opts.Listen).Msg("browser shell listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("browser shell stopped")
	return nil
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
