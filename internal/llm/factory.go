package llm

import (
	"fmt"
	"strings"

	"github.com/sashakarcz/ouija-board/internal/config"
)

// NewClient selects the backend variant configured via LLM_PROVIDER.
func NewClient(cfg *config.Config) (Client, error) {
	switch config.LLMProvider(strings.ToLower(string(cfg.LLMProvider))) {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.BackendTimeout), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.MaxTokens, cfg.BackendTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
