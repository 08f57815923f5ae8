// Package registration owns the registration form of one visitor: the
// learning-mode toggle, the submitting latch and the last draft.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/frenchcercle/cercle/internal/models"
)

// RetryMessage is shown when the registrant could not be stored
const RetryMessage = "We could not save your registration. Please try again."

var (
	// ErrBusy is returned while a previous submission is pending
	ErrBusy = errors.New("a registration is already being submitted")

	// ErrPersistence wraps store failures
	ErrPersistence = errors.New(RetryMessage)
)

// ValidationError carries one message per invalid field, keyed by the
// json field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid registration fields: %s", strings.Join(names, ", "))
}

// Fields is the submitted form. Status is accepted on the wire but never
// used; new registrants are always PENDING.
type Fields struct {
	FirstName      string `json:"firstName" validate:"notblank"`
	LastName       string `json:"lastName" validate:"notblank"`
	Email          string `json:"email" validate:"notblank,contains=@"`
	CourseInterest string `json:"courseInterest" validate:"notblank,course"`
	Level          string `json:"level"`
	Status         string `json:"status,omitempty"`
}

// Creator persists a new registrant and assigns its id and status
type Creator interface {
	CreateRegistrant(ctx context.Context, r models.NewRegistrant) (*models.Registrant, error)
}

// State is a read-only snapshot of the intake
type State struct {
	Mode         models.Mode  `json:"mode"`
	Submitting   bool         `json:"submitting"`
	PrefillLevel models.Level `json:"prefillLevel"`
	Draft        *Fields      `json:"draft,omitempty"`
}

// Intake validates and submits registrations one at a time
type Intake struct {
	mu        sync.Mutex
	store     Creator
	validate  *validator.Validate
	trans     ut.Translator
	onCreated func(models.Registrant)
	logger    *slog.Logger
	now       func() time.Time

	mode       models.Mode
	submitting bool
	confirmed  models.Level
	draft      *Fields
}

// Option configures an Intake
type Option func(*Intake)

// WithClock overrides the clock used for the submitted date
func WithClock(now func() time.Time) Option {
	return func(i *Intake) { i.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Intake) { i.logger = logger }
}

// New creates an intake. courses restricts the accepted course titles;
// onCreated runs after each stored registrant.
func New(store Creator, courses []string, onCreated func(models.Registrant), opts ...Option) *Intake {
	v, trans := newValidator(courses)
	i := &Intake{
		store:     store,
		validate:  v,
		trans:     trans,
		onCreated: onCreated,
		logger:    slog.Default(),
		now:       time.Now,
		mode:      models.ModeOnline,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetMode toggles the learning mode
func (i *Intake) SetMode(mode models.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode: %q", mode)
	}
	i.mu.Lock()
	i.mode = mode
	i.mu.Unlock()
	return nil
}

// Prefill records the level confirmed by the placement test. Invalid tags
// are ignored.
func (i *Intake) Prefill(level models.Level) {
	if !level.Valid() {
		return
	}
	i.mu.Lock()
	i.confirmed = level
	i.mu.Unlock()
}

// State returns a snapshot
func (i *Intake) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()

	s := State{
		Mode:         i.mode,
		Submitting:   i.submitting,
		PrefillLevel: i.confirmed,
	}
	if s.PrefillLevel == "" {
		s.PrefillLevel = models.DefaultLevel
	}
	if i.draft != nil {
		d := *i.draft
		s.Draft = &d
	}
	return s
}

// Submit validates fields and stores a PENDING registrant. On failure the
// draft is kept; on success the draft and the confirmed level are cleared.
func (i *Intake) Submit(ctx context.Context, fields Fields) (*models.Registrant, error) {
	if err := i.check(fields); err != nil {
		i.keepDraft(fields)
		return nil, err
	}

	i.mu.Lock()
	if i.submitting {
		i.mu.Unlock()
		return nil, ErrBusy
	}
	i.submitting = true
	nr := models.NewRegistrant{
		FirstName:      strings.TrimSpace(fields.FirstName),
		LastName:       strings.TrimSpace(fields.LastName),
		Email:          strings.TrimSpace(fields.Email),
		CourseInterest: fields.CourseInterest,
		Level:          i.levelFor(fields),
		Mode:           i.mode,
		SubmittedDate:  i.now().Format(models.DateLayout),
	}
	i.mu.Unlock()

	created, err := i.store.CreateRegistrant(ctx, nr)

	i.mu.Lock()
	i.submitting = false
	if err != nil {
		d := fields
		i.draft = &d
		i.mu.Unlock()
		i.logger.Error("failed to create registrant", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	i.draft = nil
	i.confirmed = ""
	i.mu.Unlock()

	// status is owned by the back office after creation
	created.Status = models.StatusPending

	if i.onCreated != nil {
		i.onCreated(*created)
	}
	return created, nil
}

func (i *Intake) check(fields Fields) error {
	err := i.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate registration: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = fe.Translate(i.trans)
		}
	}
	return out
}

func (i *Intake) keepDraft(fields Fields) {
	i.mu.Lock()
	i.draft = &fields
	i.mu.Unlock()
}

// levelFor picks the submitted level, then the confirmed placement level,
// then the default. Callers hold i.mu.
func (i *Intake) levelFor(fields Fields) string {
	if l := strings.TrimSpace(fields.Level); l != "" {
		return l
	}
	if i.confirmed != "" {
		return string(i.confirmed)
	}
	return string(models.DefaultLevel)
}
