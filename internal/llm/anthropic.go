package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-20250514",
}

// the messages API requires a token limit
const anthropicDefaultMaxTokens = 1024

type anthropicBackend struct {
	client  anthropic.Client
	modelID string
}

// NewAnthropic creates an evaluator on the Anthropic messages API
func NewAnthropic(cfg AnthropicConfig, opts ...Option) (*Evaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}

	b := &anthropicBackend{
		client:  anthropic.NewClient(reqOpts...),
		modelID: resolveModel(cfg.Model, anthropicModels),
	}
	return newEvaluator("anthropic", b, opts), nil
}

func (b *anthropicBackend) model() string {
	return b.modelID
}

func (b *anthropicBackend) complete(ctx context.Context, req Request) (answer, error) {
	msg, err := b.client.Messages.New(ctx, anthropicParams(b.modelID, req))
	if err != nil {
		return answer{}, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return answer{}, fmt.Errorf("%w: no text block returned", ErrInvalidAnswer)
	}

	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return answer{
		text:      text.String(),
		truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
		model:     string(msg.Model),
		usage:     Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	}, nil
}

func (b *anthropicBackend) status(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func anthropicParams(model string, req Request) anthropic.MessageNewParams {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}
