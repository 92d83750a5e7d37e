// Package agent provisions the hosted agent resource a run executes
// against: create a new agent bound to a model deployment and a toolset,
// or reuse an existing one by ID.
package agent

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/telemetry"
)

// ManagementAPI is the external agent-management service. Implemented by
// provider/foundry; tests supply fakes.
type ManagementAPI interface {
	// CreateAgent creates a new agent resource and returns its handle.
	CreateAgent(ctx context.Context, cfg skywatch.AgentConfig) (skywatch.AgentHandle, error)
	// GetAgent fetches an existing agent by ID.
	GetAgent(ctx context.Context, id string) (skywatch.AgentHandle, error)
}

// Provisioner creates or reuses agent resources.
type Provisioner struct {
	api  ManagementAPI
	sink *telemetry.Sink
}

// NewProvisioner creates a Provisioner. A nil sink means no telemetry.
func NewProvisioner(api ManagementAPI, sink *telemetry.Sink) *Provisioner {
	if sink == nil {
		sink = telemetry.NewNoop()
	}
	return &Provisioner{api: api, sink: sink}
}

// Provision returns a handle for the agent described by cfg.
//
// When cfg.AgentID is set the existing agent is fetched and reused. The
// reused handle's toolset is compared against the requested one; a
// mismatch is logged as a warning but does not fail provisioning — the
// existing binding wins, and the caller is responsible for reconciling.
//
// Errors are fatal configuration errors; provisioning is never retried.
func (p *Provisioner) Provision(ctx context.Context, cfg skywatch.AgentConfig) (skywatch.AgentHandle, error) {
	if cfg.AgentID != "" {
		handle, err := p.api.GetAgent(ctx, cfg.AgentID)
		if err != nil {
			return skywatch.AgentHandle{}, skywatch.NewConfigError("get agent "+cfg.AgentID, err)
		}
		if !toolsetsMatch(handle.Toolset, cfg.Toolset) {
			p.sink.Log(slog.LevelWarn, "reused agent toolset differs from requested toolset",
				attribute.String(telemetry.AttrAgentID, handle.ID),
			)
		}
		p.sink.Event(ctx, "agent_reused",
			attribute.String(telemetry.AttrAgentID, handle.ID),
		)
		p.sink.Log(slog.LevelInfo, "using existing agent",
			attribute.String(telemetry.AttrAgentID, handle.ID),
		)
		return handle, nil
	}

	handle, err := p.api.CreateAgent(ctx, cfg)
	if err != nil {
		return skywatch.AgentHandle{}, skywatch.NewConfigError("create agent", err)
	}
	p.sink.Event(ctx, "agent_created",
		attribute.String(telemetry.AttrAgentID, handle.ID),
		attribute.String(telemetry.AttrModelDeployment, handle.ModelDeployment),
	)
	p.sink.Log(slog.LevelInfo, "created agent",
		attribute.String(telemetry.AttrAgentID, handle.ID),
		attribute.String(telemetry.AttrModelDeployment, handle.ModelDeployment),
	)
	return handle, nil
}

// toolsetsMatch compares two toolsets by order, type and binding targets.
func toolsetsMatch(a, b []skywatch.ToolDefinition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type ||
			a[i].ServerLabel != b[i].ServerLabel ||
			a[i].ServerURL != b[i].ServerURL {
			return false
		}
		if !slices.Equal(a[i].AllowedTools, b[i].AllowedTools) {
			return false
		}
		if !slices.Equal(a[i].VectorStoreIDs, b[i].VectorStoreIDs) {
			return false
		}
	}
	return true
}
