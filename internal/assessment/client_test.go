package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/frenchcercle/cercle/internal/llm"
	"github.com/frenchcercle/cercle/internal/models"
)

const sample = "Je m'appelle Ana et j'habite à Lyon depuis deux ans."

func TestEvaluate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"estimatedLevel":"B1","feedback":"Good structure","confidence":0.9}`),
	})
	c := NewClient(mock, 30, nil)

	out := c.Evaluate(context.Background(), sample)
	if !out.OK() {
		t.Fatalf("expected ok outcome, got %+v", out)
	}
	if out.Result.Level != models.LevelB1 || out.Result.Feedback != "Good structure" || out.Result.Confidence != 0.9 {
		t.Errorf("unexpected result %+v", out.Result)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly one call, got %d", mock.CallCount())
	}
	call := mock.Requests()[0]
	if call.Schema != ResultSchema {
		t.Error("request must carry the result schema")
	}
	if call.Purpose != "placement" {
		t.Errorf("expected placement purpose, got %q", call.Purpose)
	}
	if call.Messages[0].Content != sample {
		t.Errorf("user text not forwarded: %q", call.Messages[0].Content)
	}
}

func TestEvaluate_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("dial tcp: connection refused")}},
		{"rate limited", llm.MockResponse{Err: &llm.CallError{Kind: llm.ErrRateLimited, Status: 429}}},
		{"truncated", llm.MockResponse{Err: &llm.CallError{Kind: llm.ErrTruncated}}},
		{"empty body", llm.MockResponse{Content: json.RawMessage(``)}},
		{"unparseable", llm.MockResponse{Content: json.RawMessage(`Level: B1`)}},
		{"level outside enum", llm.MockResponse{Content: json.RawMessage(`{"estimatedLevel":"C2","feedback":"x","confidence":0.5}`)}},
		{"confidence above one", llm.MockResponse{Content: json.RawMessage(`{"estimatedLevel":"A2","feedback":"x","confidence":3}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(llm.NewMockProvider(tt.resp), 30, nil)
			out := c.Evaluate(context.Background(), sample)
			if out.OK() {
				t.Fatalf("expected fallback, got %+v", out)
			}
			if out.Result != Fallback() {
				t.Errorf("expected fallback result, got %+v", out.Result)
			}
			if out.Cause == nil {
				t.Error("fallback must carry its cause")
			}
			if !out.Result.Unverified() {
				t.Error("fallback must be unverified")
			}
		})
	}
}

func TestEvaluate_NoCredentialSkipsCall(t *testing.T) {
	c := NewClient(nil, 30, nil)
	out := c.Evaluate(context.Background(), sample)
	if out.OK() {
		t.Fatal("expected fallback without provider")
	}
	if !errors.Is(out.Cause, llm.ErrUnavailable) || !errors.Is(out.Cause, llm.ErrNoCredential) {
		t.Errorf("expected unavailable cause, got %v", out.Cause)
	}
}

func TestEvaluate_TooShortSkipsCall(t *testing.T) {
	mock := llm.NewMockProvider()
	c := NewClient(mock, 30, nil)

	out := c.Evaluate(context.Background(), strings.Repeat("a", 29))
	if !errors.Is(out.Cause, ErrTextTooShort) {
		t.Errorf("expected ErrTextTooShort, got %v", out.Cause)
	}
	if mock.CallCount() != 0 {
		t.Errorf("no call expected, got %d", mock.CallCount())
	}
}

type panickingProvider struct{}

func (panickingProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	panic("boom")
}

func (panickingProvider) ModelID() string { return "panic" }

func TestEvaluate_RecoversFromPanic(t *testing.T) {
	c := NewClient(panickingProvider{}, 30, nil)
	out := c.Evaluate(context.Background(), sample)
	if out.OK() || out.Result != Fallback() {
		t.Fatalf("expected fallback after panic, got %+v", out)
	}
}

func TestEligible(t *testing.T) {
	c := NewClient(nil, 30, nil)
	tests := []struct {
		text string
		want bool
	}{
		{strings.Repeat("a", 29), false},
		{strings.Repeat("a", 30), true},
		{strings.Repeat("é", 30), true},
		{strings.Repeat(" ", 40), false},
	}
	for _, tt := range tests {
		if got := c.Eligible(tt.text); got != tt.want {
			t.Errorf("Eligible(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
