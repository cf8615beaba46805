package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"rpc error: code = ResourceExhausted desc = quota exceeded", 429},
		{"RESOURCE_EXHAUSTED: too many requests", 429},
		{"rpc error: code = Unavailable desc = the model is overloaded", 503},
		{"INVALID_ARGUMENT: request contains an invalid argument", 400},
		{"models/gemini-x is NOT_FOUND for API version v1beta", 404},
		{"googleapi: Error 503: backend unavailable", 503},
		{"unexpected status code: 502", 502},
		{"HTTP 429 Too Many Requests", 429},
		// digits that are not status codes
		{"response of 4290 bytes truncated", 0},
		{"model gemini-1.5-pro-002 returned 500 tokens", 0},
		{"candidate 400 blocked by safety filters", 0},
		{"connection reset by peer", 0},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromMessage(tt.msg))
		})
	}
}

func TestClassifyGeminiErrorIgnoresStrayDigits(t *testing.T) {
	be := classifyGeminiError("gemini:a", errors.New("prompt of 400 words rejected: blocked by safety settings"))
	assert.Zero(t, be.StatusCode)
	assert.Equal(t, ReasonTransient, be.Reason)

	be = classifyGeminiError("gemini:a", errors.New("rpc error: code = NotFound desc = model not found"))
	assert.Equal(t, 404, be.StatusCode)
	assert.Equal(t, ReasonPermanent, be.Reason)
}
