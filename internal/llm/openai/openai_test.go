package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/llm"
)

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "gpt-4")
	assert.Error(t, err)
}

func TestNew_DefaultModel(t *testing.T) {
	p, err := New("key", "")
	require.NoError(t, err)
	assert.Equal(t, defaultModel, p.model)
}

func TestChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"label\":\"negative\",\"score\":-0.7}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":9,"completion_tokens":6,"total_tokens":15}}`))
	}))
	defer srv.Close()

	p, err := NewWithBaseURL("test-key", "", srv.URL+"/v1")
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "Classify.",
		Messages:     []llm.Message{{Role: "user", Content: "Shares plunge"}},
		JSONMode:     true,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "negative")
	assert.Equal(t, 9, resp.Usage.InputTokens)
	assert.Equal(t, "stop", resp.FinishReason)

	msgs, _ := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	}))
	defer srv.Close()

	p, err := NewWithBaseURL("k", "", srv.URL+"/v1")
	require.NoError(t, err)

	_, err = p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "x"}}})
	assert.True(t, errors.Is(err, core.ErrLLMFailed))
}
