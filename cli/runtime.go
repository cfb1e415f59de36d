package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"smartchat/chart"
	"smartchat/config"
	"smartchat/logger"
	"smartchat/metrics"
	"smartchat/provider"
	"smartchat/session"
)

// offlineDelay paces the offline responder so streaming is visible.
const offlineDelay = 15 * time.Millisecond

// stack is everything a command needs to run conversations.
type stack struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	orch    *session.Orchestrator
	close   func()
}

// loadConfig resolves the configuration and applies flag overrides.
func (a *App) loadConfig() (*config.Config, error) {
	if a.opts.envFile != "" {
		if err := config.LoadDotEnv(a.opts.envFile); err != nil {
			return nil, err
		}
	}
	var loadOpts []config.LoadOption
	if a.opts.dataDir != "" {
		loadOpts = append(loadOpts, config.WithDataDir(a.opts.dataDir))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, err
	}
	if a.opts.provider != "" {
		cfg.Model.Provider = a.opts.provider
	}
	if a.opts.logLevel != "" {
		cfg.LogLevel = a.opts.logLevel
	}
	cfg.Debug = cfg.Debug || a.opts.debug
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildStack assembles the provider, renderer and orchestrator. When
// terminal is set the shell owns the screen, so logs only go to debug.log.
func (a *App) buildStack(cfg *config.Config, reg prometheus.Registerer, terminal bool) (*stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := &stack{cfg: cfg, close: func() {}}
	switch {
	case terminal && cfg.Debug:
		l, f, err := logger.OpenDebugLog(cfg.DataDir())
		if err != nil {
			return nil, err
		}
		st.log = l
		st.close = func() { _ = f.Close() }
	case terminal:
		st.log = zerolog.Nop()
	default:
		st.log = logger.New(logger.Config{
			Level:      cfg.LogLevel,
			Pretty:     !a.opts.jsonLogs,
			Output:     a.stderr,
			WithCaller: cfg.Debug,
		})
	}

	st.metrics = metrics.New(reg)

	typ, err := provider.ParseProviderType(cfg.Model.Provider)
	if err != nil {
		st.close()
		return nil, err
	}
	p, err := provider.NewProvider(provider.Config{
		Type:         typ,
		BaseURL:      cfg.Model.BaseURL,
		APIKey:       cfg.APIKey,
		TextModel:    cfg.Model.TextModel,
		VisionModel:  cfg.Model.VisionModel,
		OfflineDelay: offlineDelay,
	})
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to create %s provider: %w", typ, err)
	}

	renderer := chart.NewRenderer(chart.WithSize(cfg.Chart.Width, cfg.Chart.Height))
	st.orch = session.NewOrchestrator(p, renderer,
		session.WithModelTimeout(cfg.ModelTimeout()),
		session.WithFetchTimeout(cfg.FetchTimeout()),
		session.WithMaxDatasetBytes(cfg.MaxDatasetBytes()),
		session.WithLogger(logger.Component(st.log, "session")),
		session.WithMetrics(st.metrics),
	)

	text, vision := p.Models()
	st.log.Info().
		Str("provider", p.Name()).
		Str("text_model", text).
		Str("vision_model", vision).
		Str("data_dir", cfg.DataDir()).
		Msg("smartchat ready")
	return st, nil
}

// modelLabel names the models for display.
func modelLabel(st *stack) string {
	p := st.orch.Provider()
	text, vision := p.Models()
	if text == vision {
		return p.Name() + " " + text
	}
	return p.Name() + " " + strings.Join([]string{text, vision}, "/")
}
