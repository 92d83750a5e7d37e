package foundry

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/skywatch"
)

// Wire shapes for the Foundry agents surface. These cover only the fields
// this module reads or writes; the service tolerates omitted fields.

type createAgentRequest struct {
	Model         string         `json:"model"`
	Name          string         `json:"name,omitempty"`
	Instructions  string         `json:"instructions,omitempty"`
	Tools         []wireTool     `json:"tools,omitempty"`
	ToolResources *toolResources `json:"tool_resources,omitempty"`
}

type agentResource struct {
	ID            string         `json:"id"`
	Model         string         `json:"model"`
	Name          string         `json:"name"`
	Instructions  string         `json:"instructions"`
	Tools         []wireTool     `json:"tools"`
	ToolResources *toolResources `json:"tool_resources"`
}

type wireTool struct {
	Type         string   `json:"type"`
	ServerLabel  string   `json:"server_label,omitempty"`
	ServerURL    string   `json:"server_url,omitempty"`
	AllowedTools []string `json:"allowed_tools,omitempty"`
}

type toolResources struct {
	FileSearch *fileSearchResources `json:"file_search,omitempty"`
}

type fileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

type threadResource struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResource struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string     `json:"type"`
	Text *textBlock `json:"text,omitempty"`
}

type textBlock struct {
	Value string `json:"value"`
}

type createRunRequest struct {
	AssistantID string `json:"assistant_id"`
}

type runResource struct {
	ID             string          `json:"id"`
	ThreadID       string          `json:"thread_id"`
	Status         string          `json:"status"`
	RequiredAction *requiredAction `json:"required_action,omitempty"`
	LastError      *runLastError   `json:"last_error,omitempty"`
}

type requiredAction struct {
	Type               string              `json:"type"`
	SubmitToolApproval *submitToolApproval `json:"submit_tool_approval,omitempty"`
}

type submitToolApproval struct {
	ToolCalls []wireToolCall `json:"tool_calls"`
}

type wireToolCall struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type runLastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type submitApprovalsRequest struct {
	ToolApprovals []toolApproval `json:"tool_approvals"`
}

type toolApproval struct {
	ToolCallID string `json:"tool_call_id"`
	Approve    bool   `json:"approve"`
}

type stepResource struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Type        string      `json:"type"`
	StepDetails stepDetails `json:"step_details"`
}

type stepDetails struct {
	Type            string                  `json:"type"`
	MessageCreation *messageCreationDetails `json:"message_creation,omitempty"`
	ToolCalls       []wireToolCall          `json:"tool_calls,omitempty"`
}

type messageCreationDetails struct {
	MessageID string `json:"message_id"`
}

// listEnvelope is the service's list response wrapper.
type listEnvelope[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// toolsetToWire splits a toolset into tool declarations and tool
// resources. All file-search vector stores are merged into one resource
// block, which is how the service expects them.
func toolsetToWire(toolset []skywatch.ToolDefinition) ([]wireTool, *toolResources) {
	var tools []wireTool
	var vectorStores []string
	for _, def := range toolset {
		switch def.Type {
		case skywatch.ToolTypeFileSearch:
			tools = append(tools, wireTool{Type: string(skywatch.ToolTypeFileSearch)})
			vectorStores = append(vectorStores, def.VectorStoreIDs...)
		default:
			tools = append(tools, wireTool{
				Type:         string(def.Type),
				ServerLabel:  def.ServerLabel,
				ServerURL:    def.ServerURL,
				AllowedTools: def.AllowedTools,
			})
		}
	}
	if len(vectorStores) == 0 {
		return tools, nil
	}
	return tools, &toolResources{FileSearch: &fileSearchResources{VectorStoreIDs: vectorStores}}
}

// toolsetFromWire reverses toolsetToWire for fetched agents.
func toolsetFromWire(tools []wireTool, resources *toolResources) []skywatch.ToolDefinition {
	defs := make([]skywatch.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		def := skywatch.ToolDefinition{
			Type:         toolTypeFromWire(t.Type),
			ServerLabel:  t.ServerLabel,
			ServerURL:    t.ServerURL,
			AllowedTools: t.AllowedTools,
		}
		if def.Type == skywatch.ToolTypeFileSearch && resources != nil && resources.FileSearch != nil {
			def.VectorStoreIDs = resources.FileSearch.VectorStoreIDs
		}
		defs = append(defs, def)
	}
	return defs
}

func toolTypeFromWire(t string) skywatch.ToolType {
	switch t {
	case string(skywatch.ToolTypeMCP):
		return skywatch.ToolTypeMCP
	case string(skywatch.ToolTypeFileSearch):
		return skywatch.ToolTypeFileSearch
	default:
		return skywatch.ToolTypeOther
	}
}

func (a agentResource) handle() skywatch.AgentHandle {
	return skywatch.AgentHandle{
		ID:              a.ID,
		ModelDeployment: a.Model,
		Toolset:         toolsetFromWire(a.Tools, a.ToolResources),
	}
}

func (r runResource) run() skywatch.Run {
	run := skywatch.Run{
		ID:       r.ID,
		ThreadID: r.ThreadID,
		Status:   skywatch.RunStatus(r.Status),
	}
	if r.RequiredAction != nil && r.RequiredAction.SubmitToolApproval != nil {
		for _, call := range r.RequiredAction.SubmitToolApproval.ToolCalls {
			run.ToolCalls = append(run.ToolCalls, toolCallFromWire(call))
		}
	}
	if r.LastError != nil {
		run.LastError = r.LastError.Message
	}
	return run
}

func toolCallFromWire(call wireToolCall) skywatch.ToolCall {
	return skywatch.ToolCall{
		ID:        call.ID,
		Type:      toolTypeFromWire(call.Type),
		Name:      call.Name,
		Arguments: call.Arguments,
	}
}

func (s stepResource) record() skywatch.StepRecord {
	record := skywatch.StepRecord{
		ID:     s.ID,
		Status: s.Status,
		Type:   s.Type,
	}
	if record.Type == "" {
		record.Type = s.StepDetails.Type
	}
	for _, call := range s.StepDetails.ToolCalls {
		record.ToolCalls = append(record.ToolCalls, toolCallFromWire(call))
	}
	return record
}

// messageID returns the created message's ID for message_creation steps.
func (s stepResource) messageID() string {
	if s.StepDetails.MessageCreation == nil {
		return ""
	}
	return s.StepDetails.MessageCreation.MessageID
}

func (m messageResource) text() string {
	for _, block := range m.Content {
		if block.Text != nil {
			return block.Text.Value
		}
	}
	return ""
}

// wrapAPIError categorizes a transport error. Rate limits, timeouts and
// server errors are transient; other HTTP failures are permanent.
func wrapAPIError(op string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		code := apierr.StatusCode
		if code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500 {
			return skywatch.NewTransientError(op, code, err)
		}
		return skywatch.NewPermanentError(op, code, err)
	}
	// No HTTP response at all: network-level failure, worth retrying.
	return skywatch.NewTransientError(op, 0, err)
}
