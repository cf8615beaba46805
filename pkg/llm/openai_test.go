package llm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai/pkg/llm"
)

func TestOpenAIBackendGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"hotels\":[]}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	backend, err := llm.NewOpenAIBackend("sk-test", "gpt-4o-mini", server.URL+"/v1")
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", backend.ID())

	text, err := backend.Generate(context.Background(), "Return JSON")
	require.NoError(t, err)
	assert.Equal(t, `{"hotels":[]}`, text)
}

func TestOpenAIBackendQuotaFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer server.Close()

	backend, err := llm.NewOpenAIBackend("sk-test", "gpt-4o-mini", server.URL+"/v1")
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), "Return JSON")
	var be *llm.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, llm.ReasonQuota, be.Reason)
	assert.Equal(t, http.StatusTooManyRequests, be.StatusCode)
}

func TestOpenAIBackendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream unavailable`))
	}))
	defer server.Close()

	backend, err := llm.NewOpenAIBackend("sk-test", "gpt-4o-mini", server.URL+"/v1")
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), "Return JSON")
	var be *llm.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, llm.ReasonTransient, be.Reason)
}
