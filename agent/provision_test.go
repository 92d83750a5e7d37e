package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/telemetry"
)

// fakeManagementAPI is a scripted ManagementAPI for provisioning tests.
type fakeManagementAPI struct {
	agents  map[string]skywatch.AgentHandle
	created []skywatch.AgentConfig
	err     error
}

func (f *fakeManagementAPI) CreateAgent(_ context.Context, cfg skywatch.AgentConfig) (skywatch.AgentHandle, error) {
	if f.err != nil {
		return skywatch.AgentHandle{}, f.err
	}
	f.created = append(f.created, cfg)
	return skywatch.AgentHandle{
		ID:              "agent-new",
		ModelDeployment: cfg.ModelDeployment,
		Toolset:         cfg.Toolset,
	}, nil
}

func (f *fakeManagementAPI) GetAgent(_ context.Context, id string) (skywatch.AgentHandle, error) {
	if f.err != nil {
		return skywatch.AgentHandle{}, f.err
	}
	handle, ok := f.agents[id]
	if !ok {
		return skywatch.AgentHandle{}, errors.New("agent not found")
	}
	return handle, nil
}

func weatherToolset() []skywatch.ToolDefinition {
	return []skywatch.ToolDefinition{
		{
			Type:         skywatch.ToolTypeMCP,
			ServerLabel:  "weather",
			ServerURL:    "https://mcp.example.com/weather",
			AllowedTools: []string{"get_alerts", "get_forecast"},
		},
	}
}

func TestProvisionCreatesWhenNoIDSupplied(t *testing.T) {
	api := &fakeManagementAPI{}
	p := NewProvisioner(api, telemetry.NewNoop())

	cfg := skywatch.AgentConfig{
		Name:            "weather-agent",
		ModelDeployment: "gpt-4o",
		Toolset:         weatherToolset(),
	}
	handle, err := p.Provision(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, "agent-new", handle.ID)
	assert.Equal(t, "gpt-4o", handle.ModelDeployment)
	require.Len(t, api.created, 1)
	assert.Equal(t, cfg.Toolset, api.created[0].Toolset)
}

func TestProvisionReusesExistingAgentVerbatim(t *testing.T) {
	existing := skywatch.AgentHandle{
		ID:              "agent-7",
		ModelDeployment: "gpt-4o",
		Toolset:         weatherToolset(),
	}
	api := &fakeManagementAPI{agents: map[string]skywatch.AgentHandle{"agent-7": existing}}
	p := NewProvisioner(api, telemetry.NewNoop())

	handle, err := p.Provision(context.Background(), skywatch.AgentConfig{
		AgentID: "agent-7",
		Toolset: weatherToolset(),
	})

	require.NoError(t, err)
	assert.Equal(t, existing, handle)
	assert.Empty(t, api.created, "reuse must not create")
}

func TestProvisionReuseWithMismatchedToolsetStillSucceeds(t *testing.T) {
	existing := skywatch.AgentHandle{
		ID:      "agent-7",
		Toolset: weatherToolset(),
	}
	api := &fakeManagementAPI{agents: map[string]skywatch.AgentHandle{"agent-7": existing}}
	p := NewProvisioner(api, telemetry.NewNoop())

	// Requested toolset differs; provisioning warns but proceeds with the
	// existing binding.
	handle, err := p.Provision(context.Background(), skywatch.AgentConfig{
		AgentID: "agent-7",
		Toolset: []skywatch.ToolDefinition{{Type: skywatch.ToolTypeFileSearch, VectorStoreIDs: []string{"vs-1"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, existing.Toolset, handle.Toolset)
}

func TestProvisionSurfacesConfigErrors(t *testing.T) {
	api := &fakeManagementAPI{err: errors.New("invalid deployment")}
	p := NewProvisioner(api, nil)

	_, err := p.Provision(context.Background(), skywatch.AgentConfig{ModelDeployment: "nope"})
	require.Error(t, err)
	assert.True(t, skywatch.IsConfig(err))

	_, err = p.Provision(context.Background(), skywatch.AgentConfig{AgentID: "agent-7"})
	require.Error(t, err)
	assert.True(t, skywatch.IsConfig(err))
}

func TestToolsetsMatch(t *testing.T) {
	base := weatherToolset()

	assert.True(t, toolsetsMatch(base, weatherToolset()))
	assert.False(t, toolsetsMatch(base, nil))
	assert.False(t, toolsetsMatch(base, []skywatch.ToolDefinition{
		{Type: skywatch.ToolTypeMCP, ServerLabel: "weather", ServerURL: "https://elsewhere"},
	}))

	reordered := []skywatch.ToolDefinition{
		{Type: skywatch.ToolTypeMCP, ServerLabel: "weather", ServerURL: "https://mcp.example.com/weather", AllowedTools: []string{"get_forecast", "get_alerts"}},
	}
	assert.False(t, toolsetsMatch(base, reordered), "allowed-tool order matters")
}
