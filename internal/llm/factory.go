package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoCredential is returned by NewProvider when the selected provider
// has no API key. Callers treat it as "provider unavailable".
var ErrNoCredential = errors.New("no evaluator API key configured")

// NewProvider builds the configured evaluator with the call timeout and
// per-call logging
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []Option{WithTimeout(cfg.Timeout), WithLogger(logger)}

	var (
		ev  *Evaluator
		err error
	)
	switch cfg.Provider {
	case "gemini":
		ev, err = NewGemini(ctx, cfg.Gemini, opts...)
	case "openai":
		ev, err = NewOpenAI(cfg.OpenAI, opts...)
	case "anthropic":
		ev, err = NewAnthropic(cfg.Anthropic, opts...)
	case "mock":
		ev = newEvaluator("mock", &mockScript{}, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s evaluator: %w", cfg.Provider, err)
	}
	return ev, nil
}
