// Package run implements the poll/approve state machine that drives a
// hosted agent run to completion.
//
// A run moves queued → in_progress → requires_action → in_progress →
// {completed, failed, cancelled, expired}; requires_action may recur when
// the model proposes further tool calls after earlier ones resolve. The
// driver polls on a fixed interval, approves proposed tool calls through a
// policy, and emits telemetry at each transition. The interval sleep is the
// only suspension point; one driver invocation owns exactly one run.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/policy"
	"github.com/spetersoncode/skywatch/telemetry"
)

// DefaultPollInterval is the wait between status polls.
const DefaultPollInterval = 5 * time.Second

// API is the hosted run service the driver polls. Implemented by
// provider/foundry; tests supply scripted fakes.
type API interface {
	// CreateThread opens a new conversation thread.
	CreateThread(ctx context.Context) (string, error)
	// CreateMessage posts a user message to the thread and returns the
	// message ID.
	CreateMessage(ctx context.Context, threadID, content string) (string, error)
	// CreateRun starts a run of the agent against the thread.
	CreateRun(ctx context.Context, threadID, agentID string) (skywatch.Run, error)
	// GetRun fetches the current run snapshot.
	GetRun(ctx context.Context, threadID, runID string) (skywatch.Run, error)
	// ListSteps returns the run's steps so far, oldest first.
	ListSteps(ctx context.Context, threadID, runID string) ([]skywatch.StepRecord, error)
	// SubmitApprovals resolves proposed tool calls as a single batch.
	SubmitApprovals(ctx context.Context, threadID, runID string, decisions []skywatch.ApprovalDecision) error
	// CancelRun aborts the run.
	CancelRun(ctx context.Context, threadID, runID string) error
	// FinalAnswer returns the last assistant message text on the thread.
	FinalAnswer(ctx context.Context, threadID string) (string, error)
}

// Driver runs the poll loop. It holds no per-run state; each
// RunToCompletion call owns its own resolved-call set, so a Driver cannot
// leak approval state across runs. A Driver instance drives one run at a
// time.
type Driver struct {
	api          API
	policy       *policy.Policy
	sink         *telemetry.Sink
	pollInterval time.Duration
	stepTracing  bool
	out          io.Writer
}

// Option configures a Driver.
type Option func(*Driver)

// WithPollInterval sets the wait between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(dr *Driver) {
		dr.pollInterval = d
	}
}

// WithStepTracing enables per-step trace events and console lines.
func WithStepTracing(enabled bool) Option {
	return func(dr *Driver) {
		dr.stepTracing = enabled
	}
}

// WithOutput redirects the human-readable console lines. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(dr *Driver) {
		dr.out = w
	}
}

// NewDriver creates a Driver. A nil sink means no telemetry.
func NewDriver(api API, pol *policy.Policy, sink *telemetry.Sink, opts ...Option) *Driver {
	if sink == nil {
		sink = telemetry.NewNoop()
	}
	d := &Driver{
		api:          api,
		policy:       pol,
		sink:         sink,
		pollInterval: DefaultPollInterval,
		out:          os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunToCompletion posts userMessage on a fresh thread, runs the agent
// against it, and polls until the run reaches a terminal state, approving
// proposed tool calls along the way.
//
// Transient API errors are not retried: the first poll or submit failure
// aborts the run and propagates. Cancelling ctx aborts the loop at the
// next iteration; the remote run is left to expire on the platform side.
func (d *Driver) RunToCompletion(ctx context.Context, agent skywatch.AgentHandle, userMessage string) (*skywatch.RunResult, error) {
	ctx, span := d.sink.Span(ctx, telemetry.SpanRun,
		attribute.String(telemetry.AttrAgentID, agent.ID),
		attribute.String(telemetry.AttrModelDeployment, agent.ModelDeployment),
	)
	defer span.End()

	threadID, err := d.api.CreateThread(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create thread: %w", err)
	}
	d.sink.Log(slog.LevelInfo, "thread created", attribute.String("thread.id", threadID))

	messageID, err := d.api.CreateMessage(ctx, threadID, userMessage)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create message: %w", err)
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserPrompt,
		telemetry.Truncate(userMessage, telemetry.MaxPromptAttribute)))
	span.AddEvent(telemetry.EventUserPrompt,
		attribute.String("thread.id", threadID),
		attribute.String("message.id", messageID),
		attribute.Int("prompt.length", len(userMessage)),
	)

	current, err := d.api.CreateRun(ctx, threadID, agent.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create run: %w", err)
	}
	d.sink.Log(slog.LevelInfo, "run created",
		attribute.String("run.id", current.ID),
		attribute.String("thread.id", threadID),
	)

	tracer := NewStepTracer(d.sink, d.out)
	resolved := make(map[string]skywatch.ApprovalDecision)
	processed := 0

	for !current.Status.Terminal() {
		if err := d.waitInterval(ctx); err != nil {
			span.RecordError(err)
			return nil, err
		}

		current, err = d.api.GetRun(ctx, threadID, current.ID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("poll run: %w", err)
		}

		if d.stepTracing {
			steps, err := d.api.ListSteps(ctx, threadID, current.ID)
			if err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("list steps: %w", err)
			}
			tracer.Emit(ctx, steps)
		}

		if current.Status == skywatch.RunStatusRequiresAction {
			n, err := d.approve(ctx, span, threadID, &current, resolved)
			if err != nil {
				return nil, err
			}
			processed += n
		}

		fmt.Fprintf(d.out, "Current run status: %s\n", current.Status)
		d.sink.Log(slog.LevelInfo, "run status",
			attribute.String("run.id", current.ID),
			attribute.String(telemetry.AttrRunStatus, string(current.Status)),
		)
	}

	span.SetAttributes(
		attribute.String(telemetry.AttrRunStatus, string(current.Status)),
		attribute.Int(telemetry.AttrToolCallCount, processed),
	)
	span.AddEvent(telemetry.EventRunCompletion,
		attribute.String("run.id", current.ID),
		attribute.String("thread.id", threadID),
		attribute.String("status", string(current.Status)),
		attribute.Bool("failed", current.Status == skywatch.RunStatusFailed),
	)
	fmt.Fprintf(d.out, "Run completed with status: %s\n", current.Status)

	if current.Status == skywatch.RunStatusFailed {
		fmt.Fprintf(d.out, "Run failed: %s\n", current.LastError)
		span.AddEvent(telemetry.EventRunError,
			attribute.String("run.id", current.ID),
			attribute.String("thread.id", threadID),
			attribute.String("error", current.LastError),
		)
	}

	result := &skywatch.RunResult{
		Status:             current.Status,
		ThreadID:           threadID,
		ToolCallsProcessed: processed,
	}
	if current.Status == skywatch.RunStatusCompleted {
		answer, err := d.api.FinalAnswer(ctx, threadID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("fetch final answer: %w", err)
		}
		result.Answer = answer
	}
	return result, nil
}

// approve resolves the run's pending tool calls and returns how many
// decisions were submitted. Calls already resolved in a prior iteration
// are skipped: re-approving a resolved call is a no-op, not an error.
func (d *Driver) approve(ctx context.Context, span *telemetry.Span, threadID string, current *skywatch.Run, resolved map[string]skywatch.ApprovalDecision) (int, error) {
	if len(current.ToolCalls) == 0 {
		// The platform asked for action without proposing anything to
		// approve; the run would block forever, so cancel it.
		fmt.Fprintln(d.out, "No tool calls provided - cancelling run")
		d.sink.Log(slog.LevelWarn, "run cancelled due to missing tool calls",
			attribute.String("run.id", current.ID),
		)
		if err := d.api.CancelRun(ctx, threadID, current.ID); err != nil {
			span.RecordError(err)
			return 0, fmt.Errorf("cancel run: %w", err)
		}
		current.Status = skywatch.RunStatusCancelled
		return 0, nil
	}

	pending := make([]skywatch.ToolCall, 0, len(current.ToolCalls))
	for _, call := range current.ToolCalls {
		if _, done := resolved[call.ID]; done {
			continue
		}
		pending = append(pending, call)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	decisions := d.policy.Decide(pending)
	batchID := uuid.NewString()
	for i, call := range pending {
		d.sink.Event(ctx, telemetry.EventToolSelection,
			attribute.String("run.id", current.ID),
			attribute.String("thread.id", threadID),
			attribute.String("tool.call.id", call.ID),
			attribute.String("tool.type", string(call.Type)),
			attribute.String("tool.name", call.Name),
			attribute.Bool("approved", decisions[i].Approve),
			attribute.String("approval.batch_id", batchID),
		)
	}

	if err := d.api.SubmitApprovals(ctx, threadID, current.ID, decisions); err != nil {
		d.sink.Event(ctx, telemetry.EventToolSelectionError,
			attribute.String("run.id", current.ID),
			attribute.String("thread.id", threadID),
			attribute.String("approval.batch_id", batchID),
			attribute.String("error", err.Error()),
		)
		span.RecordError(err)
		return 0, fmt.Errorf("submit approvals: %w", err)
	}
	for _, dec := range decisions {
		resolved[dec.ToolCallID] = dec
	}
	d.sink.Log(slog.LevelInfo, "submitted tool approvals",
		attribute.String("run.id", current.ID),
		attribute.Int(telemetry.AttrToolCallCount, len(decisions)),
	)
	return len(decisions), nil
}

// waitInterval sleeps one poll interval, waking early on ctx cancellation.
func (d *Driver) waitInterval(ctx context.Context) error {
	timer := time.NewTimer(d.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
