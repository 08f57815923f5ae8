package placement

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/frenchcercle/cercle/internal/assessment"
	"github.com/frenchcercle/cercle/internal/llm"
	"github.com/frenchcercle/cercle/internal/models"
)

func b1Provider() *llm.MockProvider {
	return llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"estimatedLevel":"B1","feedback":"Good structure","confidence":0.9}`),
	})
}

func TestSubmitBelowMinimumIsNoop(t *testing.T) {
	mock := b1Provider()
	f := New(assessment.NewClient(mock, 30, nil), nil)

	f.SetText(strings.Repeat("a", 25))
	if f.State().CanSubmit {
		t.Error("submit must be disabled under the minimum length")
	}
	if f.Submit(context.Background()) {
		t.Fatal("submit must be a no-op")
	}

	f.SetText(strings.Repeat("a", 29))
	f.Submit(context.Background())
	if mock.CallCount() != 0 {
		t.Fatalf("expected no evaluator call, got %d", mock.CallCount())
	}

	f.SetText(strings.Repeat("a", 30))
	if !f.Submit(context.Background()) {
		t.Fatal("expected submit at the minimum length")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 evaluator call, got %d", mock.CallCount())
	}
}

func TestSubmitConfirmScenario(t *testing.T) {
	var confirmed models.Level
	f := New(assessment.NewClient(b1Provider(), 30, nil), func(l models.Level) { confirmed = l })

	f.SetText(strings.Repeat("b", 30))
	f.Submit(context.Background())

	s := f.State()
	if s.Result == nil || s.Result.Level != models.LevelB1 {
		t.Fatalf("expected B1 result, got %+v", s.Result)
	}
	if s.Loading || s.Fallback {
		t.Errorf("unexpected state %+v", s)
	}
	if s.CanSubmit {
		t.Error("resubmission must be disabled once a result exists")
	}

	if !f.Confirm() {
		t.Fatal("confirm must be enabled with a result")
	}
	if confirmed != models.LevelB1 {
		t.Errorf("expected B1 to be reported upward, got %q", confirmed)
	}
}

func TestSubmitTwiceCallsOnce(t *testing.T) {
	mock := b1Provider()
	f := New(assessment.NewClient(mock, 30, nil), nil)
	f.SetText(strings.Repeat("c", 40))

	f.Submit(context.Background())
	if f.Submit(context.Background()) {
		t.Error("second submit must be a no-op")
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
	if f.SetText("changed") {
		t.Error("text is frozen while a result is shown")
	}
}

func TestFallbackResultIsFlagged(t *testing.T) {
	f := New(assessment.NewClient(nil, 30, nil), nil)
	f.SetText(strings.Repeat("d", 30))
	f.Submit(context.Background())

	s := f.State()
	if !s.Fallback || s.Result == nil || s.Result.Level != models.LevelA1 {
		t.Fatalf("expected flagged A1 fallback, got %+v", s)
	}
}

func TestResetAndConfirmRequireResult(t *testing.T) {
	f := New(assessment.NewClient(b1Provider(), 30, nil), func(models.Level) {
		t.Error("confirm callback must not run without a result")
	})
	if f.Reset() {
		t.Error("reset must be disabled without a result")
	}
	if f.Confirm() {
		t.Error("confirm must be disabled without a result")
	}
}

func TestResetReturnsToInitialState(t *testing.T) {
	f := New(assessment.NewClient(b1Provider(), 30, nil), nil)
	f.SetText(strings.Repeat("e", 30))
	f.Submit(context.Background())

	if !f.Reset() {
		t.Fatal("reset must be enabled with a result")
	}
	s := f.State()
	if s.Text != "" || s.Result != nil || s.Loading {
		t.Errorf("expected initial state, got %+v", s)
	}
}

type blockingEvaluator struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingEvaluator) Eligible(text string) bool { return text != "" }

func (b *blockingEvaluator) Evaluate(ctx context.Context, text string) assessment.Outcome {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	close(b.started)
	<-b.release
	return assessment.Outcome{Kind: assessment.KindOK, Result: models.AssessmentResult{Level: models.LevelA2, Confidence: 0.5}}
}

func TestSubmitWhileLoadingIsNoop(t *testing.T) {
	ev := &blockingEvaluator{started: make(chan struct{}), release: make(chan struct{})}
	f := New(ev, nil)
	f.SetText("bonjour")

	done := make(chan struct{})
	go func() {
		f.Submit(context.Background())
		close(done)
	}()
	<-ev.started

	if !f.State().Loading {
		t.Error("expected loading state during evaluation")
	}
	if f.Submit(context.Background()) {
		t.Error("submit while loading must be a no-op")
	}
	if f.Reset() {
		t.Error("reset while loading must be a no-op")
	}

	close(ev.release)
	<-done

	if ev.calls != 1 {
		t.Errorf("expected 1 call, got %d", ev.calls)
	}
	if f.State().Loading {
		t.Error("loading must clear once the evaluation resolves")
	}
}
