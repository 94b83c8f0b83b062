package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gateway", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Gateway    GatewayConfig    `yaml:"gateway"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`

	// MaxTokens caps each response. Default: 300.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature for tutoring replies. Default: 0.7.
	Temperature float64 `yaml:"temperature"`

	// ConnectTimeout bounds connecting and waiting for response headers.
	// Streams themselves are not timed. Default: 30s.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// GatewayConfig configures a raw OpenAI-compatible HTTP endpoint whose SSE
// body is passed through unchanged.
type GatewayConfig struct {
	BaseURL string `yaml:"base_url"` // e.g. "http://localhost:8080/v1"
	APIKey  string `yaml:"api_key"`  // Optional.
	Model   string `yaml:"model"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.0-flash-exp"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		MaxTokens:      300,
		Temperature:    0.7,
		ConnectTimeout: 30 * time.Second,
	}
}

// ApplyEnv overrides cfg with any MATHBUDDY_* LLM variables that are set.
func ApplyEnv(cfg *Config) {
	if p := os.Getenv("MATHBUDDY_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if u := os.Getenv("MATHBUDDY_GATEWAY_URL"); u != "" {
		cfg.Gateway.BaseURL = u
	}
	if k := os.Getenv("MATHBUDDY_GATEWAY_API_KEY"); k != "" {
		cfg.Gateway.APIKey = k
	}
	if m := os.Getenv("MATHBUDDY_GATEWAY_MODEL"); m != "" {
		cfg.Gateway.Model = m
	}

	if k := os.Getenv("MATHBUDDY_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("MATHBUDDY_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("MATHBUDDY_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("MATHBUDDY_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("MATHBUDDY_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("MATHBUDDY_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("MATHBUDDY_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("MATHBUDDY_OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
	}
	if m := os.Getenv("MATHBUDDY_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if v := os.Getenv("MATHBUDDY_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("MATHBUDDY_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
}

// WithDiscovered returns c switched to the provider of d, taking only that
// provider's API key from d. Every other setting of c is kept.
func (c Config) WithDiscovered(d Config) Config {
	c.Provider = d.Provider
	switch d.Provider {
	case "gemini":
		c.Gemini.APIKey = d.Gemini.APIKey
	case "openai":
		c.OpenAI.APIKey = d.OpenAI.APIKey
	case "anthropic":
		c.Anthropic.APIKey = d.Anthropic.APIKey
	case "openrouter":
		c.OpenRouter.APIKey = d.OpenRouter.APIKey
	}
	return c
}

// DiscoverConfig checks the standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "gateway":
		if c.Gateway.BaseURL == "" {
			return fmt.Errorf("MATHBUDDY_GATEWAY_URL is required for the gateway provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHBUDDY_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHBUDDY_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHBUDDY_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MATHBUDDY_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	return nil
}
