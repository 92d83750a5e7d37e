package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordingSink returns a sink backed by an in-memory span recorder.
func recordingSink(t *testing.T) (*Sink, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	sink := New(
		WithTracerProvider(tp),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	return sink, recorder
}

func TestNoopSinkIsInert(t *testing.T) {
	sink := NewNoop()
	ctx := context.Background()

	ctx, span := sink.Span(ctx, SpanRun, attribute.String(AttrAgentID, "agent-1"))
	require.NotNil(t, span)

	// None of these may panic or perform I/O.
	span.SetAttributes(attribute.String(AttrRunStatus, "completed"))
	span.AddEvent(EventRunCompletion)
	span.RecordError(errors.New("boom"))
	sink.Event(ctx, EventToolSelection, attribute.Int(AttrToolCallCount, 1))
	sink.Log(slog.LevelInfo, "run status")
	span.End()
}

func TestDefaultSinkIsInertWithoutProvider(t *testing.T) {
	// The otel global default provider is a no-op until an SDK is
	// installed; a default sink must behave like NewNoop.
	sink := New(WithLogger(slog.New(slog.DiscardHandler)))
	ctx, span := sink.Span(context.Background(), SpanRun)
	sink.Event(ctx, EventRunStep)
	span.End()
}

func TestSpanRecordsEventsAndAttributes(t *testing.T) {
	sink, recorder := recordingSink(t)

	ctx, span := sink.Span(context.Background(), SpanRun,
		attribute.String(AttrAgentID, "agent-42"),
	)
	sink.Event(ctx, EventToolSelection,
		attribute.String("tool.call.id", "call_1"),
		attribute.Bool("approved", true),
	)
	span.SetAttributes(attribute.String(AttrRunStatus, "completed"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, SpanRun, got.Name())

	require.Len(t, got.Events(), 1)
	assert.Equal(t, EventToolSelection, got.Events()[0].Name)

	attrs := got.Attributes()
	assert.Contains(t, attrs, attribute.String(AttrAgentID, "agent-42"))
	assert.Contains(t, attrs, attribute.String(AttrRunStatus, "completed"))
}

func TestSpanRecordError(t *testing.T) {
	sink, recorder := recordingSink(t)

	_, span := sink.Span(context.Background(), SpanRun)
	span.RecordError(errors.New("poll failed"))
	span.RecordError(nil) // ignored
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 1000)
	got := Truncate(long, MaxPromptAttribute)
	assert.Len(t, got, 500)
	assert.Equal(t, long[:500], got)

	assert.Equal(t, "short", Truncate("short", MaxPromptAttribute))
	assert.Equal(t, "", Truncate("anything", 0))

	// Rune boundaries, not byte boundaries.
	assert.Equal(t, "hél", Truncate("héllo", 3))
}
