package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply string
	err   error
	last  ChatRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &ChatResponse{Content: s.reply}, nil
}

func TestAsk(t *testing.T) {
	p := &stubProvider{reply: "  hello \n"}
	got, err := Ask(context.Background(), p, "sys", "hi", true)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "sys", p.last.SystemPrompt)
	assert.True(t, p.last.JSONMode)
	require.Len(t, p.last.Messages, 1)
	assert.Equal(t, "user", p.last.Messages[0].Role)
}

func TestAsk_Errors(t *testing.T) {
	_, err := Ask(context.Background(), &stubProvider{reply: "   "}, "", "hi", false)
	assert.Error(t, err)

	_, err = Ask(context.Background(), &stubProvider{err: errors.New("down")}, "", "hi", false)
	assert.EqualError(t, err, "down")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"label\":\"positive\"}\n```", `{"label":"positive"}`},
		{`Sure! {"score": -0.4} hope this helps`, `{"score": -0.4}`},
		{"no json", "no json"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ExtractJSON(tc.in))
	}
}

func TestMaxTokensOrDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, MaxTokensOrDefault(0))
	assert.Equal(t, 50, MaxTokensOrDefault(50))
}
