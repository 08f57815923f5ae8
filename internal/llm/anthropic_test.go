package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *Evaluator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropic(AnthropicConfig{
		APIKey:  "test-key",
		Model:   "claude-haiku",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}
	return p
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"name":"Ana","age":4}`},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 30, "output_tokens": 10},
		})
	})

	resp, err := p.Generate(context.Background(), UserPrompt("sys", "hi", testSchema()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 40 {
		t.Errorf("expected 40 tokens, got %d", resp.Usage.TotalTokens)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("unexpected model id %q", p.ModelID())
	}
}

func TestAnthropicProvider_ServerError(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "invalid_request_error", "message": "bad"},
		})
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "hi", nil))
	var ce *CallError
	if !errors.As(err, &ce) || !errors.Is(err, ErrUnavailable) || ce.Status != http.StatusBadRequest {
		t.Fatalf("expected unavailable CallError with status 400, got %v", err)
	}
}
