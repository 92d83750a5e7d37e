package skywatch

import "encoding/json"

// RunStatus is the lifecycle state of a hosted agent run as reported by
// the platform.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

// Terminal reports whether the run can make no further progress.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// ToolType tags a tool call with the capability it targets.
type ToolType string

const (
	// ToolTypeMCP is a call to a remote MCP tool server.
	ToolTypeMCP ToolType = "mcp"
	// ToolTypeFileSearch is a lookup against a bound vector store.
	ToolTypeFileSearch ToolType = "file_search"
	// ToolTypeOther covers tool types this module does not recognize.
	ToolTypeOther ToolType = "other"
)

// ToolCall is a tool invocation proposed by the run. It is immutable once
// proposed; the run cannot progress until the call is approved or denied.
type ToolCall struct {
	// ID uniquely identifies the call within its run.
	ID string `json:"id"`
	// Type tags the tool capability being invoked.
	Type ToolType `json:"type"`
	// Name is the tool name within the server, when the platform reports one.
	Name string `json:"name,omitempty"`
	// Arguments is the opaque argument payload. The orchestrator never
	// interprets it.
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ApprovalDecision resolves a single proposed tool call. Each tool call
// receives exactly one decision; submitting a decision twice for the same
// call ID is a no-op on the driver side.
type ApprovalDecision struct {
	ToolCallID string `json:"tool_call_id"`
	Approve    bool   `json:"approve"`
	// Reason explains a denial. Empty for approvals.
	Reason string `json:"reason,omitempty"`
}

// Run is a snapshot of a hosted run as of the latest poll.
type Run struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Status   RunStatus `json:"status"`
	// ToolCalls holds the proposed calls pending approval. Only populated
	// while Status is requires_action.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// LastError carries the platform's error description for failed runs.
	LastError string `json:"last_error,omitempty"`
}

// RunResult is what the driver returns once a run reaches a terminal state.
type RunResult struct {
	// Status is the terminal run status.
	Status RunStatus `json:"status"`
	// ThreadID is the conversation thread the run executed against.
	ThreadID string `json:"thread_id"`
	// Answer is the final assistant text, empty unless Status is completed.
	Answer string `json:"answer,omitempty"`
	// ToolCallsProcessed counts the approval decisions submitted over the
	// whole run.
	ToolCallsProcessed int `json:"tool_calls_processed"`
}

// StepRecord is one incremental unit of run progress (a message creation,
// a batch of tool calls, ...) as listed by the platform.
type StepRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	// Type is the platform's step kind, e.g. "message_creation" or
	// "tool_calls".
	Type string `json:"type"`
	// MessageText is the free-text content of a message_creation step,
	// when present.
	MessageText string `json:"message_text,omitempty"`
	// ToolCalls are the calls recorded on a tool_calls step.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Message is one entry of the thread conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
