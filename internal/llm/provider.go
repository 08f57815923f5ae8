// Package llm talks to the external text evaluator. An Evaluator wraps one
// vendor backend; it bounds each call, checks the answer against the
// requested schema and classifies failures into CallError kinds.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Provider generates structured output from a prompt
type Provider interface {
	// Generate sends one request and returns the checked JSON content.
	// Providers never retry.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider is configured with
	ModelID() string
}

// Request describes a single evaluator call
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the vendor's structured output mode and
	// the answer is checked against it
	Schema *Schema

	MaxTokens   int
	Temperature float64

	// Purpose labels the call in logs
	Purpose string
}

// Message is a single conversation turn
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds a checked evaluator answer
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
}

// Usage tracks token consumption for a single request
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request
func UserPrompt(system, text string, schema *Schema) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: text}},
		Schema:   schema,
	}
}

// backend is one vendor API. It returns the raw answer; the Evaluator
// does everything vendor independent.
type backend interface {
	complete(ctx context.Context, req Request) (answer, error)

	// status extracts the HTTP status from a vendor error, or 0
	status(err error) int

	model() string
}

type answer struct {
	text      string
	truncated bool
	usage     Usage
	model     string
}

// Evaluator implements Provider on top of a vendor backend
type Evaluator struct {
	name    string
	backend backend
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithTimeout bounds each Generate call. Non-positive values disable it.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithLogger logs one line per call
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

func newEvaluator(name string, b backend, opts []Option) *Evaluator {
	e := &Evaluator{name: name, backend: b}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the vendor name
func (e *Evaluator) Name() string {
	return e.name
}

func (e *Evaluator) ModelID() string {
	return e.backend.model()
}

func (e *Evaluator) Generate(ctx context.Context, req Request) (*Response, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.generate(ctx, req)
	e.log(req, resp, err, time.Since(start))
	return resp, err
}

func (e *Evaluator) generate(ctx context.Context, req Request) (*Response, error) {
	ans, err := e.backend.complete(ctx, req)
	if err != nil {
		return nil, e.classify(err)
	}

	content := json.RawMessage(ans.text)
	if ans.truncated {
		return nil, &CallError{Kind: ErrTruncated, Provider: e.name, Raw: content}
	}
	if err := req.Schema.Check(content); err != nil {
		return nil, &CallError{Kind: ErrInvalidAnswer, Provider: e.name, Raw: content, Err: err}
	}

	model := ans.model
	if model == "" {
		model = e.backend.model()
	}
	return &Response{Content: content, Usage: ans.usage, Model: model}, nil
}

// classify turns a backend error into a CallError. CallErrors pass
// through unchanged.
func (e *Evaluator) classify(err error) error {
	var ce *CallError
	if errors.As(err, &ce) {
		return err
	}

	status := e.backend.status(err)
	kind := ErrUnavailable
	switch {
	case errors.Is(err, ErrInvalidAnswer):
		kind = ErrInvalidAnswer
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	}
	return &CallError{Kind: kind, Provider: e.name, Status: status, Err: err}
}

func (e *Evaluator) log(req Request, resp *Response, err error, took time.Duration) {
	if e.logger == nil {
		return
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = "unknown"
	}

	attrs := []any{
		"provider", e.name,
		"model", e.backend.model(),
		"purpose", purpose,
		"latency_ms", took.Milliseconds(),
		"success", err == nil,
	}
	if resp != nil {
		attrs = append(attrs,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}
	if err != nil {
		e.logger.Warn("evaluator call failed", append(attrs, "error", err)...)
		return
	}
	e.logger.Info("evaluator call", attrs...)
}

// resolveModel maps a friendly name to a vendor model id. Unknown names
// pass through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
