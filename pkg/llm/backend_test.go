package llm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"wanderai/pkg/llm"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
		want    llm.Reason
	}{
		{"rate limited", 429, "Too many requests", llm.ReasonTransient},
		{"quota exhausted", 429, "You exceeded your current quota", llm.ReasonQuota},
		{"overloaded", 503, "The model is overloaded", llm.ReasonTransient},
		{"internal", 500, "", llm.ReasonTransient},
		{"anthropic overloaded", 529, "overloaded_error", llm.ReasonTransient},
		{"bad request", 400, "invalid request", llm.ReasonPermanent},
		{"model not found", 404, "models/gemini-9 is not found", llm.ReasonPermanent},
		{"unauthorized", 401, "invalid x-api-key", llm.ReasonPermanent},
		{"payment required", 402, "", llm.ReasonQuota},
		{"no status network", 0, "dial tcp: connection refused", llm.ReasonTransient},
		{"no status not found", 0, "rpc error: code = NotFound desc = model not found", llm.ReasonPermanent},
		{"no status billing", 0, "billing not enabled", llm.ReasonQuota},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ClassifyStatus(tt.code, tt.message))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("keeps existing backend error", func(t *testing.T) {
		orig := &llm.BackendError{Backend: "claude:x", Reason: llm.ReasonQuota, Err: errors.New("no credit")}
		got := llm.Wrap("other", fmt.Errorf("call: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("empty response is permanent", func(t *testing.T) {
		got := llm.Wrap("gemini:a", llm.ErrEmptyResponse)
		assert.Equal(t, llm.ReasonPermanent, got.Reason)
		assert.Equal(t, "gemini:a", got.Backend)
		assert.False(t, got.Retryable())
	})

	t.Run("deadline is transient", func(t *testing.T) {
		got := llm.Wrap("gemini:a", context.DeadlineExceeded)
		assert.Equal(t, llm.ReasonTransient, got.Reason)
		assert.True(t, got.Retryable())
		assert.ErrorIs(t, got, context.DeadlineExceeded)
	})
}

func TestBackendErrorMessage(t *testing.T) {
	err := &llm.BackendError{Backend: "openai:gpt-4o-mini", Reason: llm.ReasonTransient, StatusCode: 503, Err: errors.New("busy")}
	assert.Equal(t, "openai:gpt-4o-mini: transient (status 503): busy", err.Error())
}
