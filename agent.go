package skywatch

// ToolDefinition declares one tool capability bound to an agent.
// For ToolTypeMCP the server fields identify the remote MCP server the
// platform will call; for ToolTypeFileSearch the vector-store IDs select
// the document indexes available to the search.
type ToolDefinition struct {
	Type ToolType `json:"type"`

	// MCP server reference.
	ServerLabel string `json:"server_label,omitempty"`
	ServerURL   string `json:"server_url,omitempty"`
	// AllowedTools restricts which tools on the server the agent may call.
	// Empty means all.
	AllowedTools []string `json:"allowed_tools,omitempty"`

	// VectorStoreIDs back the file-search capability.
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// AgentConfig is the input to provisioning.
type AgentConfig struct {
	// AgentID, when set, selects an existing agent to reuse instead of
	// creating a new one.
	AgentID string

	Name            string
	ModelDeployment string
	Instructions    string
	// Toolset is the ordered set of tool definitions to bind.
	Toolset []ToolDefinition
}

// AgentHandle identifies a provisioned agent resource. Immutable after
// creation; safe to reuse across runs.
type AgentHandle struct {
	ID              string           `json:"id"`
	ModelDeployment string           `json:"model_deployment"`
	Toolset         []ToolDefinition `json:"toolset"`
}
