package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
		want string
	}{
		{"claude", config.LLMConfig{Provider: "claude", Claude: config.ClaudeConfig{APIKey: "k", Model: "claude-3-haiku"}}, "claude"},
		{"openai", config.LLMConfig{Provider: "openai", OpenAI: config.OpenAIConfig{APIKey: "k"}}, "openai"},
		{"ollama", config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{Endpoint: "http://localhost:11434"}}, "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(config.LLMConfig{})
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: "unknown"})
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestNew_ClaudeMissingKey(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: "claude"})
	assert.Error(t, err)
}
