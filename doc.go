// Package skywatch drives a hosted conversational agent that answers
// weather questions by calling external tools (an MCP weather server and a
// vector-store file search).
//
// The hosted platform executes the model and the tools; this module is the
// orchestration glue around it: provision an agent, post a user message,
// create a run, poll its status, approve the tool calls the run proposes,
// and trace each run step until the run reaches a terminal state.
//
// The root package holds the shared domain types. Orchestration lives in
// the subpackages:
//
//   - agent: create-or-reuse agent provisioning
//   - policy: the tool-call approval policy
//   - run: the poll/approve state machine and step tracing
//   - telemetry: span/event/log sink (inert when unconfigured)
//   - provider/foundry: the client for the hosted agent service
//
// Basic usage:
//
//	client := foundry.New(endpoint, apiKey)
//	handle, err := agent.NewProvisioner(client, sink).Provision(ctx, cfg)
//	driver := run.NewDriver(client, policy.New(), sink)
//	result, err := driver.RunToCompletion(ctx, handle, "What's the weather in Seattle?")
package skywatch
