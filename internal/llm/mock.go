package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is one scripted answer. Err, when set, is returned instead
// of Content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a FIFO script through the same checks as the
// vendor evaluators. An exhausted script reports the evaluator unavailable.
type MockProvider struct {
	*Evaluator
	script *mockScript
}

// NewMockProvider creates a MockProvider with the given answers
func NewMockProvider(responses ...MockResponse) *MockProvider {
	s := &mockScript{queue: responses}
	return &MockProvider{Evaluator: newEvaluator("mock", s, nil), script: s}
}

// Push appends a scripted answer
func (m *MockProvider) Push(resp MockResponse) {
	m.script.mu.Lock()
	defer m.script.mu.Unlock()
	m.script.queue = append(m.script.queue, resp)
}

// Requests returns a copy of every request received so far
func (m *MockProvider) Requests() []Request {
	m.script.mu.Lock()
	defer m.script.mu.Unlock()
	return append([]Request(nil), m.script.seen...)
}

// CallCount returns the number of Generate calls made
func (m *MockProvider) CallCount() int {
	m.script.mu.Lock()
	defer m.script.mu.Unlock()
	return len(m.script.seen)
}

type mockScript struct {
	mu    sync.Mutex
	queue []MockResponse
	seen  []Request
}

func (s *mockScript) model() string { return "mock" }

func (s *mockScript) status(error) int { return 0 }

func (s *mockScript) complete(_ context.Context, req Request) (answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = append(s.seen, req)
	if len(s.queue) == 0 {
		return answer{}, fmt.Errorf("%w: mock script exhausted", ErrUnavailable)
	}
	next := s.queue[0]
	s.queue = s.queue[1:]

	if next.Err != nil {
		return answer{}, next.Err
	}
	return answer{text: string(next.Content), usage: next.Usage, model: "mock"}, nil
}
