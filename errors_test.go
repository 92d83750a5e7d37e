package skywatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	cfg := NewConfigError("PROJECT_ENDPOINT is required", nil)
	assert.True(t, IsConfig(cfg))
	assert.False(t, cfg.Retryable())
	assert.Equal(t, 0, cfg.StatusCode())

	transient := NewTransientError("rate limited", 429, nil)
	assert.True(t, IsTransient(transient))
	assert.True(t, transient.Retryable())
	assert.Equal(t, 429, StatusCodeOf(transient))

	perm := NewPermanentError("deployment not found", 404, nil)
	assert.False(t, IsTransient(perm))
	assert.False(t, perm.Retryable())
	assert.Equal(t, 404, perm.StatusCode())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransientError("poll failed", 0, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "poll failed: connection reset", err.Error())

	// Categorization survives wrapping.
	wrapped := fmt.Errorf("run aborted: %w", err)
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsConfig(wrapped))
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := NewConfigError("MODEL_DEPLOYMENT_NAME is required", nil)
	assert.Equal(t, "MODEL_DEPLOYMENT_NAME is required", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestRunStatusTerminal(t *testing.T) {
	terminal := []RunStatus{RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "status %s", s)
	}
	active := []RunStatus{RunStatusQueued, RunStatusInProgress, RunStatusRequiresAction}
	for _, s := range active {
		assert.False(t, s.Terminal(), "status %s", s)
	}
}
