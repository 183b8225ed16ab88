// Package llm wraps the language-model providers behind one completion
// interface. The pipeline only ever sees Client; which provider answers is
// decided by configuration at startup.
package llm

import (
	"context"
	"fmt"

	"github.com/dynamicdevices/audionews/internal/config"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// New builds the client for the provider resolved in settings.
func New(cfg *config.Settings) (Client, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.AnthropicAPIKey), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey), nil
	case config.ProviderGemini:
		return NewGeminiClient(cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
