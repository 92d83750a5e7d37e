// Command weatheragent drives a hosted weather agent run end to end:
// provision (or reuse) the agent, post a question, poll the run while
// approving the MCP and file-search tool calls it proposes, and print the
// resulting conversation.
//
// Configuration is environment-driven; see config.go for the variables.
// A .env file in the working directory is loaded if present.
//
// Usage:
//
//	PROJECT_ENDPOINT=https://myproject.services.ai.example.com/api/projects/my-project \
//	PROJECT_API_KEY=... \
//	MODEL_DEPLOYMENT_NAME=gpt-4o \
//	MCP_SERVER_URL=https://weather-mcp.example.com/mcp \
//	MCP_SERVER_LABEL=weather \
//	go run ./cmd/weatheragent
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spetersoncode/skywatch"
	"github.com/spetersoncode/skywatch/agent"
	"github.com/spetersoncode/skywatch/policy"
	"github.com/spetersoncode/skywatch/provider/foundry"
	"github.com/spetersoncode/skywatch/run"
	"github.com/spetersoncode/skywatch/telemetry"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "weatheragent: %v\n", err)
		os.Exit(1)
	}
}

func realMain() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := setupTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	sink := telemetry.New(telemetry.WithLogger(logger))
	client := foundry.New(cfg.ProjectEndpoint, cfg.ProjectAPIKey)

	handle, err := agent.NewProvisioner(client, sink).Provision(ctx, cfg.AgentConfig())
	if err != nil {
		return err
	}
	fmt.Printf("Agent ID: %s\n", handle.ID)

	driver := run.NewDriver(client, policy.New(), sink,
		run.WithPollInterval(cfg.PollInterval),
		run.WithStepTracing(cfg.StepTracing),
	)
	result, err := driver.RunToCompletion(ctx, handle, cfg.UserPrompt)
	if err != nil {
		return err
	}

	if err := printConversation(ctx, client, result.ThreadID); err != nil {
		return err
	}

	if result.Status != skywatch.RunStatusCompleted {
		return fmt.Errorf("run ended with status %s", result.Status)
	}
	fmt.Printf("\nTool calls processed: %d\n", result.ToolCallsProcessed)
	return nil
}

func printConversation(ctx context.Context, client *foundry.Client, threadID string) error {
	messages, err := client.ListMessages(ctx, threadID)
	if err != nil {
		return err
	}
	fmt.Println("\nConversation:")
	fmt.Println(strings.Repeat("-", 50))
	for _, msg := range messages {
		fmt.Printf("%s: %s\n", strings.ToUpper(msg.Role), msg.Content)
		fmt.Println(strings.Repeat("-", 50))
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	default:
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
