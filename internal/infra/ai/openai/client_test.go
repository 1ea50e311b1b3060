package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/engine-checkup/internal/domain/ai"
)

func TestComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"issue_summary\":\"ok\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "", srv.URL+"/v1")
	out, err := c.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, `{"issue_summary":"ok"}`, out)
	assert.Equal(t, defaultModel, got["model"])
	assert.EqualValues(t, maxTokens, got["max_tokens"])
}

func TestComplete_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "gpt-4o", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), "sys", "usr")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-2025-04-16"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
}
