// Package placement holds the placement test state of one visitor: the
// text being written, the loading latch and the assessed result.
package placement

import (
	"context"
	"sync"

	"github.com/frenchcercle/cercle/internal/assessment"
	"github.com/frenchcercle/cercle/internal/models"
)

// Evaluator is the part of assessment.Client the flow depends on
type Evaluator interface {
	Eligible(text string) bool
	Evaluate(ctx context.Context, text string) assessment.Outcome
}

// State is a read-only snapshot of the flow
type State struct {
	Text      string                   `json:"text"`
	Loading   bool                     `json:"loading"`
	Result    *models.AssessmentResult `json:"result,omitempty"`
	Fallback  bool                     `json:"fallback"`
	CanSubmit bool                     `json:"canSubmit"`
	CanReset  bool                     `json:"canReset"`
}

// Flow drives one evaluation at a time. Submit is a no-op while loading,
// once a result exists, or when the text is under the minimum length.
type Flow struct {
	mu        sync.Mutex
	evaluator Evaluator
	onConfirm func(models.Level)

	text    string
	loading bool
	outcome *assessment.Outcome
}

// New creates a flow. onConfirm receives the assessed level on Confirm.
func New(evaluator Evaluator, onConfirm func(models.Level)) *Flow {
	return &Flow{evaluator: evaluator, onConfirm: onConfirm}
}

// SetText replaces the input text. Ignored while loading or once a
// result exists.
func (f *Flow) SetText(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading || f.outcome != nil {
		return false
	}
	f.text = text
	return true
}

// Submit evaluates the current text once. It reports whether an
// evaluation ran; the result is read back through State.
func (f *Flow) Submit(ctx context.Context) bool {
	f.mu.Lock()
	if !f.canSubmit() {
		f.mu.Unlock()
		return false
	}
	f.loading = true
	text := f.text
	f.mu.Unlock()

	out := f.evaluator.Evaluate(ctx, text)

	f.mu.Lock()
	f.outcome = &out
	f.loading = false
	f.mu.Unlock()
	return true
}

// Reset clears the result and the text. Only enabled once a result exists.
func (f *Flow) Reset() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outcome == nil {
		return false
	}
	f.outcome = nil
	f.text = ""
	return true
}

// Confirm reports the assessed level upward. Only enabled once a result
// exists.
func (f *Flow) Confirm() bool {
	f.mu.Lock()
	if f.outcome == nil {
		f.mu.Unlock()
		return false
	}
	level := f.outcome.Result.Level
	f.mu.Unlock()

	if f.onConfirm != nil {
		f.onConfirm(level)
	}
	return true
}

// State returns a snapshot
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := State{
		Text:      f.text,
		Loading:   f.loading,
		CanSubmit: f.canSubmit(),
		CanReset:  f.outcome != nil,
	}
	if f.outcome != nil {
		r := f.outcome.Result
		s.Result = &r
		s.Fallback = !f.outcome.OK()
	}
	return s
}

func (f *Flow) canSubmit() bool {
	return !f.loading && f.outcome == nil && f.evaluator.Eligible(f.text)
}
