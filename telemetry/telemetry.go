// Package telemetry is the module's single side-effecting observability
// channel: spans and span events over the OpenTelemetry trace API, plus
// structured logs via log/slog.
//
// The sink is always safe to call. When no tracer provider is configured
// the OpenTelemetry global default is a no-op provider, so every span and
// event call completes without performing I/O; callers never branch on
// whether a monitoring backend is present.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Names emitted on the wire. These are consumed by existing dashboards and
// must not change.
const (
	SpanRun = "weather_agent.run"

	EventUserPrompt         = "user_prompt"
	EventToolSelection      = "tool_selection"
	EventToolSelectionError = "tool_selection_error"
	EventRunStep            = "run_step"
	EventRunCompletion      = "run_completion"
	EventRunError           = "run_error"

	AttrAgentID         = "weather.agent_id"
	AttrModelDeployment = "weather.model_deployment"
	AttrRunStatus       = "weather.run.status"
	AttrUserPrompt      = "weather.user_prompt"
	AttrStepReasoning   = "step.reasoning"
	AttrToolCallCount   = "tool.call.count"
)

// MaxPromptAttribute bounds the recorded user prompt attribute.
const MaxPromptAttribute = 500

const tracerName = "github.com/spetersoncode/skywatch"

// Sink emits spans, span events and structured logs. The zero-cost path is
// a sink backed by the no-op tracer provider and a discarding logger.
type Sink struct {
	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithTracerProvider sets the tracer provider. Defaults to the
// OpenTelemetry global provider, which is a no-op until an SDK is
// installed.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Sink) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = l
	}
}

// New creates a Sink.
func New(opts ...Option) *Sink {
	s := &Sink{
		tracer: otel.GetTracerProvider().Tracer(tracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewNoop creates a Sink that records nothing. All operations remain valid.
func NewNoop() *Sink {
	return &Sink{
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.DiscardHandler),
	}
}

// Span starts a named span. The returned handle must be ended on every
// exit path; End is safe to call on the no-op implementation.
func (s *Sink) Span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

// Event records a span event on the span carried by ctx and mirrors it to
// the debug log. Without an active recording span this is only a log line.
func (s *Sink) Event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
	s.logger.Debug(name, logArgs(attrs)...)
}

// Log writes a structured log line.
func (s *Sink) Log(level slog.Level, msg string, attrs ...attribute.KeyValue) {
	s.logger.Log(context.Background(), level, msg, logArgs(attrs)...)
}

// Span is a scoped handle over an in-flight trace span.
type Span struct {
	span trace.Span
}

// SetAttributes sets attributes on the span.
func (sp *Span) SetAttributes(attrs ...attribute.KeyValue) {
	sp.span.SetAttributes(attrs...)
}

// AddEvent records an event on the span.
func (sp *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	sp.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records err on the span. Nil errors are ignored.
func (sp *Span) RecordError(err error) {
	if err == nil {
		return
	}
	sp.span.RecordError(err)
}

// End completes the span.
func (sp *Span) End() {
	sp.span.End()
}

// Truncate bounds s to at most limit characters (runes, not bytes).
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// logArgs flattens otel attributes into slog key/value pairs.
func logArgs(attrs []attribute.KeyValue) []any {
	args := make([]any, 0, len(attrs)*2)
	for _, a := range attrs {
		args = append(args, string(a.Key), a.Value.AsInterface())
	}
	return args
}
