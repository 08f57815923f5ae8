package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kinds of evaluator failure. A CallError matches exactly one of them
// with errors.Is.
var (
	ErrUnavailable   = errors.New("evaluator unavailable")
	ErrRateLimited   = errors.New("evaluator rate limited")
	ErrInvalidAnswer = errors.New("invalid evaluator answer")
	ErrTruncated     = errors.New("evaluator answer truncated")
)

// CallError is a failed evaluator call
type CallError struct {
	Kind     error
	Provider string

	// Status is the vendor HTTP status when known
	Status int

	// Raw is the answer as received, for invalid or truncated answers
	Raw json.RawMessage

	Err error
}

func (e *CallError) Error() string {
	msg := e.Kind.Error()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
