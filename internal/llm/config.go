package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the evaluator provider
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "mock"
	Provider string

	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig

	// Timeout bounds a single call at the network layer
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns the Gemini flash configuration without a key
func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Gemini:    GeminiConfig{Model: "gemini-2.5-flash"},
		OpenAI:    OpenAIConfig{Model: "gpt-mini"},
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		Timeout:   30 * time.Second,
	}
}

// ConfigFromEnv reads CERCLE_* variables on top of the defaults
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("CERCLE_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if d := os.Getenv("CERCLE_LLM_TIMEOUT"); d != "" {
		if v, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = v
		}
	}

	setIf(&cfg.Gemini.APIKey, "CERCLE_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "CERCLE_GEMINI_MODEL")
	setIf(&cfg.Gemini.BaseURL, "CERCLE_GEMINI_BASE_URL")

	setIf(&cfg.OpenAI.APIKey, "CERCLE_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "CERCLE_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "CERCLE_OPENAI_BASE_URL")

	setIf(&cfg.Anthropic.APIKey, "CERCLE_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "CERCLE_ANTHROPIC_MODEL")
	setIf(&cfg.Anthropic.BaseURL, "CERCLE_ANTHROPIC_BASE_URL")

	return cfg
}

// DiscoverConfig probes the vendor key variables in priority order
// (Gemini, OpenAI, Anthropic). API_KEY is read as a Gemini key. Returns
// false if no key is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if k := os.Getenv(name); k != "" {
			cfg.Provider = "gemini"
			cfg.Gemini.APIKey = k
			return cfg, true
		}
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
	return Config{}, false
}

// ResolveConfig prefers the CERCLE_* configuration and falls back to
// discovery when it carries no key
func ResolveConfig() Config {
	cfg := ConfigFromEnv()
	if cfg.HasCredential() {
		return cfg
	}
	if discovered, ok := DiscoverConfig(); ok {
		discovered.Timeout = cfg.Timeout
		return discovered
	}
	return cfg
}

// HasCredential reports whether the selected provider has an API key
func (c Config) HasCredential() bool {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Validate checks that the selected provider is known and has its key
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasCredential() {
		return ErrNoCredential
	}
	return nil
}

func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
