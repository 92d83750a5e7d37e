package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spetersoncode/skywatch"
)

const (
	defaultAgentName    = "weather-agent"
	defaultInstructions = "You are a weather assistant that helps users find weather updates and warnings for a given US state and city."
	defaultUserPrompt   = "I live in Seward, Alaska and wondering what kind of clothing and accessory I should wear today when I go out?"
)

// Config holds everything the sample reads from the environment. Core
// packages never look at the environment themselves; this struct is built
// once at startup and handed down.
type Config struct {
	// Hosted agent service.
	ProjectEndpoint string
	ProjectAPIKey   string

	// Agent provisioning.
	AgentID         string // reuse an existing agent when set
	ModelDeployment string
	Instructions    string

	// Toolset.
	MCPServerURL    string
	MCPServerLabel  string
	MCPAllowedTools []string
	VectorStoreIDs  []string

	// Run.
	UserPrompt   string
	PollInterval time.Duration
	StepTracing  bool

	// Observability.
	LogLevel                string
	MonitorConnectionString string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file first if one is present.
func LoadConfig() (*Config, error) {
	godotenv.Load() // silent no-op when no .env exists

	cfg := &Config{
		ProjectEndpoint:         os.Getenv("PROJECT_ENDPOINT"),
		ProjectAPIKey:           os.Getenv("PROJECT_API_KEY"),
		AgentID:                 os.Getenv("AGENT_ID"),
		ModelDeployment:         os.Getenv("MODEL_DEPLOYMENT_NAME"),
		Instructions:            getEnvOrDefault("AGENT_INSTRUCTIONS", defaultInstructions),
		MCPServerURL:            os.Getenv("MCP_SERVER_URL"),
		MCPServerLabel:          os.Getenv("MCP_SERVER_LABEL"),
		MCPAllowedTools:         splitList(getEnvOrDefault("MCP_ALLOWED_TOOLS", "get_alerts,get_forecast")),
		VectorStoreIDs:          splitList(os.Getenv("VECTOR_STORE_IDS")),
		UserPrompt:              getEnvOrDefault("USER_PROMPT", defaultUserPrompt),
		PollInterval:            getEnvDurationOrDefault("POLL_INTERVAL", 5*time.Second),
		StepTracing:             getEnvBoolOrDefault("STEP_TRACING", true),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "error"),
		MonitorConnectionString: os.Getenv("APPLICATIONINSIGHTS_CONNECTION_STRING"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.ProjectEndpoint == "" {
		return skywatch.NewConfigError("PROJECT_ENDPOINT is required", nil)
	}
	if c.ProjectAPIKey == "" {
		return skywatch.NewConfigError("PROJECT_API_KEY is required", nil)
	}
	// When reusing an agent by ID the model and toolset are already bound
	// remotely; otherwise we need enough to create one.
	if c.AgentID == "" {
		if c.ModelDeployment == "" {
			return skywatch.NewConfigError("MODEL_DEPLOYMENT_NAME is required when AGENT_ID is not set", nil)
		}
		if c.MCPServerURL == "" || c.MCPServerLabel == "" {
			return skywatch.NewConfigError("MCP_SERVER_URL and MCP_SERVER_LABEL are required when AGENT_ID is not set", nil)
		}
	}
	return nil
}

// AgentConfig builds the provisioning input.
func (c *Config) AgentConfig() skywatch.AgentConfig {
	toolset := []skywatch.ToolDefinition{
		{
			Type:         skywatch.ToolTypeMCP,
			ServerLabel:  c.MCPServerLabel,
			ServerURL:    c.MCPServerURL,
			AllowedTools: c.MCPAllowedTools,
		},
	}
	if len(c.VectorStoreIDs) > 0 {
		toolset = append(toolset, skywatch.ToolDefinition{
			Type:           skywatch.ToolTypeFileSearch,
			VectorStoreIDs: c.VectorStoreIDs,
		})
	}
	return skywatch.AgentConfig{
		AgentID:         c.AgentID,
		Name:            defaultAgentName,
		ModelDeployment: c.ModelDeployment,
		Instructions:    c.Instructions,
		Toolset:         toolset,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
