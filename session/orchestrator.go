// Package session owns conversation state and runs each user turn through
// the model, the response interpreter and the chart renderer.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smartchat/chart"
	"smartchat/dataset"
	"smartchat/interpret"
	"smartchat/metrics"
	"smartchat/model"
)

const (
	DefaultModelTimeout = 120 * time.Second
	DefaultFetchTimeout = dataset.DefaultFetchTimeout
)

// Orchestrator holds the dependencies shared by every session. It keeps no
// per-conversation state.
type Orchestrator struct {
	provider     model.Provider
	renderer     *chart.Renderer
	timeout      time.Duration
	fetchTimeout time.Duration
	maxBytes     int64
	log          zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithModelTimeout bounds each model call.
func WithModelTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithFetchTimeout bounds each dataset load.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithMaxDatasetBytes caps the size of a CSV source.
func WithMaxDatasetBytes(n int64) Option {
	return func(o *Orchestrator) { o.maxBytes = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics sets the metrics sink. Nil disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithClock overrides the turn timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator returns an orchestrator using p for answers and r for
// charts. A nil renderer selects chart.NewRenderer().
func NewOrchestrator(p model.Provider, r *chart.Renderer, opts ...Option) *Orchestrator {
	if r == nil {
		r = chart.NewRenderer()
	}
	o := &Orchestrator{
		provider:     p,
		renderer:     r,
		timeout:      DefaultModelTimeout,
		fetchTimeout: DefaultFetchTimeout,
		log:          zerolog.Nop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewSession starts an empty conversation.
func (o *Orchestrator) NewSession() *Session {
	return &Session{orch: o, state: newState(o.maxBytes)}
}

// Provider returns the model provider.
func (o *Orchestrator) Provider() model.Provider {
	return o.provider
}

// generate runs one model call under the configured timeout and returns the
// joined chunks. On failure the partial text is dropped.
func (o *Orchestrator) generate(ctx context.Context, req model.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	textModel, visionModel := o.provider.Models()
	modelName := textModel
	if req.HasImage() {
		modelName = visionModel
	}

	start := time.Now()
	var sb strings.Builder
	err := o.provider.Generate(ctx, req, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	elapsed := time.Since(start)
	o.metrics.RecordModelRequest(modelName, elapsed)

	if err != nil {
		me := model.AsModelError(err)
		if me.Kind == model.ErrorKindTimeout && me.Timeout == 0 {
			copied := *me
			copied.Timeout = o.timeout
			me = &copied
		}
		o.metrics.RecordModelError(string(me.Kind))
		o.log.Warn().
			Err(err).
			Str("kind", string(me.Kind)).
			Str("model", modelName).
			Dur("elapsed", elapsed).
			Int("partial_len", sb.Len()).
			Msg("model request failed")
		return "", me
	}

	o.log.Debug().
		Str("model", modelName).
		Dur("elapsed", elapsed).
		Int("prompt_len", len(req.Prompt)).
		Int("reply_len", sb.Len()).
		Bool("image", req.HasImage()).
		Msg("model request complete")
	return sb.String(), nil
}

// resolve turns a complete reply into the assistant turn that answers it.
func (o *Orchestrator) resolve(reply string, ds *dataset.Dataset) (model.Turn, string) {
	res := interpret.Interpret(reply)
	if res.Kind == interpret.PlainText {
		return model.Turn{Role: model.RoleAssistant, Text: res.Text}, "text"
	}

	start := time.Now()
	img, err := o.renderer.Render(res.Directive, ds)
	o.metrics.RecordChartRender(res.Directive.Type, time.Since(start), err)
	if err != nil {
		o.log.Info().
			Err(err).
			Str("type", res.Directive.Type).
			Msg("chart request rejected")
		return model.Turn{Role: model.RoleAssistant, Text: err.Error(), Error: true}, "chart_error"
	}
	return model.Turn{Role: model.RoleAssistant, Text: ChartCaption, Chart: img.PNG}, "chart"
}
