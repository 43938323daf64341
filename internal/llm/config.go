package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures an LLM provider. An empty Provider
// disables AI commentary.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has every model set and no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBindings lists the MATURITY_* variables and the field each one sets.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"MATURITY_LLM_PROVIDER":       &c.Provider,
		"MATURITY_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"MATURITY_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"MATURITY_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"MATURITY_OPENAI_MODEL":       &c.OpenAI.Model,
		"MATURITY_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"MATURITY_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"MATURITY_GEMINI_MODEL":       &c.Gemini.Model,
		"MATURITY_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"MATURITY_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// LoadConfig reads MATURITY_* variables through getenv. When no provider
// is named explicitly the vendors' standard key variables are probed.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()
	for name, field := range cfg.envBindings() {
		if v := getenv(name); v != "" {
			*field = v
		}
	}
	if cfg.Provider == "" {
		cfg.discover(getenv)
	}
	return cfg
}

// ConfigFromEnv is LoadConfig over the process environment.
func ConfigFromEnv() Config {
	return LoadConfig(os.Getenv)
}

// discover picks the first provider with a standard key variable set, in
// the order Gemini, OpenAI, Anthropic, OpenRouter.
func (c *Config) discover(getenv func(string) string) {
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if *p.key == "" {
			*p.key = getenv(p.env)
		}
		if *p.key != "" {
			c.Provider = p.provider
			return
		}
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has a key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "MATURITY_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "MATURITY_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "MATURITY_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "MATURITY_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown llm provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
