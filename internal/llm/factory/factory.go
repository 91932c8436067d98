// internal/llm/factory/factory.go
package factory

import (
	"fmt"

	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/llm"
	"github.com/newthinker/tradebot/internal/llm/claude"
	"github.com/newthinker/tradebot/internal/llm/ollama"
	"github.com/newthinker/tradebot/internal/llm/openai"
)

// New creates an LLM provider based on configuration. An empty provider
// name returns (nil, nil): the LLM sentiment analyzer is then skipped.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "claude":
		return claude.NewWithBaseURL(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.BaseURL)
	case "openai":
		return openai.NewWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown LLM provider: %s", cfg.Provider))
	}
}
