// Package policy decides which proposed tool calls the orchestrator
// approves.
//
// The shipped policy is deliberately simple: approve every call whose tool
// type is in a configured allowed set. It is the extension point for real
// deployments (rate limits, cost caps, human-in-the-loop) — anything that
// can be expressed as a function from proposed calls to decisions.
package policy

import (
	"github.com/spetersoncode/skywatch"
)

// DenyReasonUnrecognized is the reason attached to denials of tool types
// outside the allowed set.
const DenyReasonUnrecognized = "unrecognized tool type"

// Policy approves tool calls by type allowlist. Decide is a deterministic
// function of its input and the policy's static configuration; it performs
// no I/O, so re-deciding the same call always yields the same decision.
type Policy struct {
	allowed map[skywatch.ToolType]struct{}
}

// Option configures a Policy.
type Option func(*Policy)

// WithAllowedTypes replaces the default allowed set.
func WithAllowedTypes(types ...skywatch.ToolType) Option {
	return func(p *Policy) {
		p.allowed = make(map[skywatch.ToolType]struct{}, len(types))
		for _, t := range types {
			p.allowed[t] = struct{}{}
		}
	}
}

// New creates a Policy. By default all known tool types are approved.
func New(opts ...Option) *Policy {
	p := &Policy{
		allowed: map[skywatch.ToolType]struct{}{
			skywatch.ToolTypeMCP:        {},
			skywatch.ToolTypeFileSearch: {},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decide returns exactly one decision per input call, preserving input
// order. Calls whose type is not in the allowed set are denied with
// DenyReasonUnrecognized.
func (p *Policy) Decide(calls []skywatch.ToolCall) []skywatch.ApprovalDecision {
	decisions := make([]skywatch.ApprovalDecision, 0, len(calls))
	for _, call := range calls {
		if _, ok := p.allowed[call.Type]; ok {
			decisions = append(decisions, skywatch.ApprovalDecision{
				ToolCallID: call.ID,
				Approve:    true,
			})
			continue
		}
		decisions = append(decisions, skywatch.ApprovalDecision{
			ToolCallID: call.ID,
			Approve:    false,
			Reason:     DenyReasonUnrecognized,
		})
	}
	return decisions
}

// Allows reports whether the policy approves the given tool type.
func (p *Policy) Allows(t skywatch.ToolType) bool {
	_, ok := p.allowed[t]
	return ok
}
