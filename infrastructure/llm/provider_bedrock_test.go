package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// TestBedrockProvider_RequiresRegion tests that construction fails without
// an AWS region.
func TestBedrockProvider_RequiresRegion(t *testing.T) {
	_, err := newBedrockProvider(ClientConfig{})

	require.Error(t, err, "missing region should fail")
	assert.ErrorIs(t, err, ErrMissingRegion, "should return the missing region sentinel")
}

// TestBedrockProvider_Converse tests a Converse round trip against a stub
// endpoint: turn wrapping, system block separation, and response
// normalization.
func TestBedrockProvider_Converse(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret-key")

	var captured struct {
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured), "request body should decode")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"output": {"message": {"role": "assistant", "content": [{"text": "from converse"}]}},
			"stopReason": "end_turn",
			"usage": {"inputTokens": 9, "outputTokens": 4, "totalTokens": 13}
		}`))
	}))
	defer server.Close()

	provider, err := newBedrockProvider(ClientConfig{Region: "us-east-1", BaseURL: server.URL})
	require.NoError(t, err, "provider construction should succeed")

	result, err := provider.Converse(context.Background(), Request{
		Model:  "anthropic.claude-3-haiku",
		System: []string{"You are terse."},
		Turns: []domain.Message{
			{Role: domain.RoleUser, Content: "hello"},
			{Role: domain.RoleAssistant, Content: "hey"},
		},
	})

	require.NoError(t, err, "completion should succeed")
	assert.Equal(t, "from converse", result.Text, "first text block should be the completion")
	assert.Equal(t, "end_turn", result.StopReason, "stop reason should be forwarded")
	assert.Equal(t, 9, result.Usage.InputTokens, "input tokens should match")
	assert.Equal(t, 13, result.Usage.TotalTokens, "total tokens should match")

	require.Len(t, captured.Messages, 2, "both turns should be sent")
	assert.Equal(t, "user", captured.Messages[0].Role, "user role should map")
	assert.Equal(t, "hello", captured.Messages[0].Content[0].Text, "turn text should be wrapped in a block")
	assert.Equal(t, "assistant", captured.Messages[1].Role, "assistant role should map")
	require.Len(t, captured.System, 1, "system instructions should travel separately")
	assert.Equal(t, "You are terse.", captured.System[0].Text, "system text should be preserved")
}

// TestBedrockProvider_ClassifiesThrottling tests that a throttled call
// surfaces as a classified rate-limit provider error.
func TestBedrockProvider_ClassifiesThrottling(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-Errortype", "ThrottlingException")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message": "Too many requests"}`))
	}))
	defer server.Close()

	provider, err := newBedrockProvider(ClientConfig{Region: "us-east-1", BaseURL: server.URL})
	require.NoError(t, err, "provider construction should succeed")

	_, err = provider.Converse(context.Background(), Request{
		Model: "anthropic.claude-3-haiku",
		Turns: []domain.Message{{Role: domain.RoleUser, Content: "hello"}},
	})

	require.Error(t, err, "throttled request should fail")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr, "error should be a ProviderError")
	assert.Equal(t, ErrorTypeRateLimit, provErr.Type, "throttling should classify as rate limit")
	assert.Equal(t, "bedrock", provErr.Provider, "provider name should be set")
}
