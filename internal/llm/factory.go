package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/mathbuddy/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with logging middleware. Streams are
// never retried: a partially delivered reply cannot be replayed.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, opts ...LoggingOption) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gateway":
		base, err = NewGatewayProvider(cfg.Gateway, cfg.ConnectTimeout)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider().WithDefault(MockText("Let's think about it together. ", "What do you notice first?"))
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, eventRepo, opts...), nil
}
