// Package foundry is the client for the hosted agent service (the Azure AI
// Foundry agents surface). It implements both the agent-management API the
// provisioner needs and the run API the driver polls.
//
// The agents surface is assistants-compatible REST with Foundry extensions
// (MCP tool definitions, tool approvals), so the client is built on the
// openai-go request plumbing — auth, Azure endpoint and api-version
// handling, JSON transport — with the extended wire shapes defined locally
// in wire.go.
package foundry

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/agent"
	"github.com/spetersoncode/skywatch/run"
)

var (
	_ agent.ManagementAPI = (*Client)(nil)
	_ run.API             = (*Client)(nil)
)

// DefaultAPIVersion is the Foundry agents api-version requested by default.
const DefaultAPIVersion = "2025-05-15-preview"

// Client talks to one Foundry project endpoint.
type Client struct {
	client openai.Client
}

// Option configures a Client.
type Option func(*config)

type config struct {
	apiVersion  string
	requestOpts []option.RequestOption
}

// WithAPIVersion overrides the agents api-version.
func WithAPIVersion(version string) Option {
	return func(c *config) {
		c.apiVersion = version
	}
}

// WithRequestOptions appends raw openai-go request options, e.g.
// option.WithHTTPClient for tests.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *config) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// New creates a Client for the given project endpoint and API key.
func New(endpoint, apiKey string, opts ...Option) *Client {
	cfg := config{apiVersion: DefaultAPIVersion}
	for _, opt := range opts {
		opt(&cfg)
	}
	requestOpts := append([]option.RequestOption{
		azure.WithEndpoint(endpoint, cfg.apiVersion),
		azure.WithAPIKey(apiKey),
	}, cfg.requestOpts...)
	return &Client{client: openai.NewClient(requestOpts...)}
}

// CreateAgent creates a new agent resource bound to cfg's model deployment
// and toolset.
func (c *Client) CreateAgent(ctx context.Context, cfg skywatch.AgentConfig) (skywatch.AgentHandle, error) {
	req := createAgentRequest{
		Model:        cfg.ModelDeployment,
		Name:         cfg.Name,
		Instructions: cfg.Instructions,
	}
	req.Tools, req.ToolResources = toolsetToWire(cfg.Toolset)

	var res agentResource
	if err := c.client.Post(ctx, "/assistants", req, &res); err != nil {
		return skywatch.AgentHandle{}, wrapAPIError("create agent", err)
	}
	return res.handle(), nil
}

// GetAgent fetches an existing agent by ID.
func (c *Client) GetAgent(ctx context.Context, id string) (skywatch.AgentHandle, error) {
	var res agentResource
	if err := c.client.Get(ctx, "/assistants/"+id, nil, &res); err != nil {
		return skywatch.AgentHandle{}, wrapAPIError("get agent", err)
	}
	return res.handle(), nil
}

// CreateThread opens a new conversation thread.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var res threadResource
	if err := c.client.Post(ctx, "/threads", map[string]any{}, &res); err != nil {
		return "", wrapAPIError("create thread", err)
	}
	return res.ID, nil
}

// CreateMessage posts a user message to the thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, content string) (string, error) {
	req := createMessageRequest{Role: "user", Content: content}
	var res messageResource
	if err := c.client.Post(ctx, "/threads/"+threadID+"/messages", req, &res); err != nil {
		return "", wrapAPIError("create message", err)
	}
	return res.ID, nil
}

// CreateRun starts a run of the agent against the thread.
func (c *Client) CreateRun(ctx context.Context, threadID, agentID string) (skywatch.Run, error) {
	req := createRunRequest{AssistantID: agentID}
	var res runResource
	if err := c.client.Post(ctx, "/threads/"+threadID+"/runs", req, &res); err != nil {
		return skywatch.Run{}, wrapAPIError("create run", err)
	}
	return res.run(), nil
}

// GetRun fetches the current run snapshot, including any tool calls
// pending approval.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (skywatch.Run, error) {
	var res runResource
	if err := c.client.Get(ctx, fmt.Sprintf("/threads/%s/runs/%s", threadID, runID), nil, &res); err != nil {
		return skywatch.Run{}, wrapAPIError("get run", err)
	}
	return res.run(), nil
}

// ListSteps returns the run's steps so far, oldest first. For
// message_creation steps the referenced message text is fetched best
// effort; a fetch failure only leaves MessageText empty.
func (c *Client) ListSteps(ctx context.Context, threadID, runID string) ([]skywatch.StepRecord, error) {
	var res listEnvelope[stepResource]
	path := fmt.Sprintf("/threads/%s/runs/%s/steps?order=asc", threadID, runID)
	if err := c.client.Get(ctx, path, nil, &res); err != nil {
		return nil, wrapAPIError("list steps", err)
	}

	steps := make([]skywatch.StepRecord, 0, len(res.Data))
	for _, s := range res.Data {
		record := s.record()
		if messageID := s.messageID(); messageID != "" {
			record.MessageText = c.messageText(ctx, threadID, messageID)
		}
		steps = append(steps, record)
	}
	return steps, nil
}

// SubmitApprovals resolves proposed tool calls as a single batch.
func (c *Client) SubmitApprovals(ctx context.Context, threadID, runID string, decisions []skywatch.ApprovalDecision) error {
	req := submitApprovalsRequest{
		ToolApprovals: make([]toolApproval, len(decisions)),
	}
	for i, d := range decisions {
		req.ToolApprovals[i] = toolApproval{
			ToolCallID: d.ToolCallID,
			Approve:    d.Approve,
		}
	}
	path := fmt.Sprintf("/threads/%s/runs/%s/submit_tool_outputs", threadID, runID)
	var res runResource
	if err := c.client.Post(ctx, path, req, &res); err != nil {
		return wrapAPIError("submit approvals", err)
	}
	return nil
}

// CancelRun aborts the run.
func (c *Client) CancelRun(ctx context.Context, threadID, runID string) error {
	path := fmt.Sprintf("/threads/%s/runs/%s/cancel", threadID, runID)
	var res runResource
	if err := c.client.Post(ctx, path, map[string]any{}, &res); err != nil {
		return wrapAPIError("cancel run", err)
	}
	return nil
}

// ListMessages returns the thread conversation, oldest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]skywatch.Message, error) {
	var res listEnvelope[messageResource]
	if err := c.client.Get(ctx, "/threads/"+threadID+"/messages?order=asc", nil, &res); err != nil {
		return nil, wrapAPIError("list messages", err)
	}
	messages := make([]skywatch.Message, 0, len(res.Data))
	for _, m := range res.Data {
		messages = append(messages, skywatch.Message{Role: m.Role, Content: m.text()})
	}
	return messages, nil
}

// FinalAnswer returns the latest assistant message text on the thread.
func (c *Client) FinalAnswer(ctx context.Context, threadID string) (string, error) {
	messages, err := c.ListMessages(ctx, threadID)
	if err != nil {
		return "", err
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "assistant" {
			return messages[i].Content, nil
		}
	}
	return "", nil
}

// messageText fetches a message's text content, returning "" on any error.
func (c *Client) messageText(ctx context.Context, threadID, messageID string) string {
	var res messageResource
	if err := c.client.Get(ctx, fmt.Sprintf("/threads/%s/messages/%s", threadID, messageID), nil, &res); err != nil {
		return ""
	}
	return res.text()
}
