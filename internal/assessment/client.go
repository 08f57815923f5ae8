// Package assessment estimates the CEFR level of a placement text through
// the external evaluator. Evaluate always resolves: failures become the
// fallback outcome.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/frenchcercle/cercle/internal/llm"
	"github.com/frenchcercle/cercle/internal/models"
)

// ErrTextTooShort is the fallback cause for text under the minimum length
var ErrTextTooShort = errors.New("placement text is too short")

// Kind tags an Outcome
type Kind string

const (
	KindOK       Kind = "ok"
	KindFallback Kind = "fallback"
)

// Outcome is the result of one evaluation. Cause is set for fallbacks.
type Outcome struct {
	Kind   Kind
	Result models.AssessmentResult
	Cause  error
}

// OK reports whether the evaluator produced the result
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

func ok(r models.AssessmentResult) Outcome {
	return Outcome{Kind: KindOK, Result: r}
}

func fallback(cause error) Outcome {
	return Outcome{Kind: KindFallback, Result: Fallback(), Cause: cause}
}

// Client issues one evaluator call per Evaluate. A nil provider means no
// credential is configured.
type Client struct {
	provider  llm.Provider
	minLength int
	logger    *slog.Logger
}

// NewClient creates an assessment client
func NewClient(provider llm.Provider, minLength int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{provider: provider, minLength: minLength, logger: logger}
}

// MinLength returns the minimum text length in characters
func (c *Client) MinLength() int {
	return c.minLength
}

// Eligible reports whether text meets the minimum length precondition
func (c *Client) Eligible(text string) bool {
	return strings.TrimSpace(text) != "" && utf8.RuneCountInString(text) >= c.minLength
}

// Evaluate estimates the level of text. It never returns an error and
// never panics; every failure produces the fallback outcome.
func (c *Client) Evaluate(ctx context.Context, text string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback(fmt.Errorf("evaluator panic: %v", r))
			c.logger.Error("placement evaluation panicked", "panic", r)
		}
	}()

	if !c.Eligible(text) {
		return fallback(ErrTextTooShort)
	}
	if c.provider == nil {
		c.logger.Warn("placement evaluation skipped", "reason", "no evaluator credential")
		return fallback(&llm.CallError{Kind: llm.ErrUnavailable, Err: llm.ErrNoCredential})
	}

	req := llm.UserPrompt(systemPrompt, text, ResultSchema)
	req.MaxTokens = maxOutputTokens
	req.Purpose = "placement"

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.logger.Warn("placement evaluation failed", "error", err)
		return fallback(err)
	}
	if resp == nil {
		return fallback(ErrEmptyResponse)
	}

	result, err := MapResponse(resp.Content)
	if err != nil {
		c.logger.Warn("placement evaluation unusable", "error", err)
		return fallback(err)
	}
	return ok(result)
}
