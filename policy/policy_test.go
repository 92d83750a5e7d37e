package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/skywatch"
)

func TestDecideOneDecisionPerCallInOrder(t *testing.T) {
	p := New()
	calls := []skywatch.ToolCall{
		{ID: "call_1", Type: skywatch.ToolTypeMCP},
		{ID: "call_2", Type: skywatch.ToolTypeFileSearch},
		{ID: "call_3", Type: skywatch.ToolTypeOther},
		{ID: "call_4", Type: skywatch.ToolTypeMCP},
	}

	decisions := p.Decide(calls)

	require.Len(t, decisions, len(calls))
	for i, d := range decisions {
		assert.Equal(t, calls[i].ID, d.ToolCallID, "decision %d out of order", i)
	}
}

func TestDecideDefaultAllowlist(t *testing.T) {
	p := New()

	decisions := p.Decide([]skywatch.ToolCall{
		{ID: "call_mcp", Type: skywatch.ToolTypeMCP},
		{ID: "call_fs", Type: skywatch.ToolTypeFileSearch},
		{ID: "call_other", Type: skywatch.ToolTypeOther},
	})

	require.Len(t, decisions, 3)
	assert.True(t, decisions[0].Approve)
	assert.Empty(t, decisions[0].Reason)
	assert.True(t, decisions[1].Approve)
	assert.False(t, decisions[2].Approve)
	assert.Equal(t, DenyReasonUnrecognized, decisions[2].Reason)
}

func TestDecideCustomAllowlist(t *testing.T) {
	p := New(WithAllowedTypes(skywatch.ToolTypeMCP))

	decisions := p.Decide([]skywatch.ToolCall{
		{ID: "call_mcp", Type: skywatch.ToolTypeMCP},
		{ID: "call_fs", Type: skywatch.ToolTypeFileSearch},
	})

	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Approve)
	assert.False(t, decisions[1].Approve)
	assert.Equal(t, DenyReasonUnrecognized, decisions[1].Reason)

	assert.True(t, p.Allows(skywatch.ToolTypeMCP))
	assert.False(t, p.Allows(skywatch.ToolTypeFileSearch))
}

func TestDecideIsIdempotent(t *testing.T) {
	p := New()
	calls := []skywatch.ToolCall{
		{ID: "call_1", Type: skywatch.ToolTypeMCP},
		{ID: "call_2", Type: skywatch.ToolTypeOther},
	}

	first := p.Decide(calls)
	second := p.Decide(calls)

	assert.Equal(t, first, second)
}

func TestDecideEmptyInput(t *testing.T) {
	p := New()
	assert.Empty(t, p.Decide(nil))
	assert.Empty(t, p.Decide([]skywatch.ToolCall{}))
}
