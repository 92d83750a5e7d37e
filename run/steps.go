package run

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/telemetry"
)

// stepTypeMessageCreation is the platform's step kind for assistant
// message creation, the only kind we mine for a reasoning snippet.
const stepTypeMessageCreation = "message_creation"

// reasoningSnippetLimit bounds the extracted snippet.
const reasoningSnippetLimit = 200

// StepTracer emits one telemetry event and one console line per newly
// observed run step. Steps are deduplicated by ID across poll iterations,
// so feeding the same listing twice is harmless.
type StepTracer struct {
	sink *telemetry.Sink
	out  io.Writer
	seen map[string]struct{}
}

// NewStepTracer creates a StepTracer writing console lines to out.
func NewStepTracer(sink *telemetry.Sink, out io.Writer) *StepTracer {
	return &StepTracer{
		sink: sink,
		out:  out,
		seen: make(map[string]struct{}),
	}
}

// Emit forwards every not-yet-seen step to the telemetry sink and the
// console. Reasoning extraction is best effort: when no snippet can be
// mined the attribute is simply omitted.
func (t *StepTracer) Emit(ctx context.Context, steps []skywatch.StepRecord) {
	for _, step := range steps {
		if _, ok := t.seen[step.ID]; ok {
			continue
		}
		t.seen[step.ID] = struct{}{}

		attrs := []attribute.KeyValue{
			attribute.String("step.id", step.ID),
			attribute.String("step.status", step.Status),
			attribute.String("step.type", step.Type),
			attribute.Int(telemetry.AttrToolCallCount, len(step.ToolCalls)),
		}
		if snippet, ok := reasoningSnippet(step); ok {
			attrs = append(attrs, attribute.String(telemetry.AttrStepReasoning, snippet))
		}
		t.sink.Event(ctx, telemetry.EventRunStep, attrs...)

		fmt.Fprintf(t.out, "[STEP TRACE] id=%s status=%s type=%s\n", step.ID, step.Status, step.Type)
		for _, call := range step.ToolCalls {
			fmt.Fprintf(t.out, "    tool call id=%s type=%s\n", call.ID, call.Type)
		}
	}
}

// reasoningSnippet extracts a short reasoning excerpt from a
// message_creation step's free text. When no snippet can be mined the
// second return is false and no attribute is recorded.
func reasoningSnippet(step skywatch.StepRecord) (string, bool) {
	if step.Type != stepTypeMessageCreation {
		return "", false
	}
	text := strings.TrimSpace(step.MessageText)
	if text == "" {
		return "", false
	}
	return telemetry.Truncate(text, reasoningSnippetLimit), true
}
