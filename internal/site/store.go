// Package site composes the per-visitor state: navigation, the placement
// test, the registration form and the admin session. A Store is one
// visitor; Visits keeps them by id.
package site

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/models"
	"github.com/frenchcercle/cercle/internal/navigation"
	"github.com/frenchcercle/cercle/internal/placement"
	"github.com/frenchcercle/cercle/internal/registration"
)

// RegisteredNotice is shown once after a successful registration
const RegisteredNotice = "Merci! We will contact you shortly."

// Notifier is told about every stored registrant
type Notifier interface {
	Registered(r models.Registrant)
}

// Deps are the collaborators shared by every visitor
type Deps struct {
	Evaluator   placement.Evaluator
	Registrants registration.Creator
	Courses     []string
	Directory   *admin.Directory
	Auth        auth.Authenticator
	Notifier    Notifier
	Logger      *slog.Logger
}

// Page is what the visitor sees after an action. ScrollTo and Notice are
// delivered on one page only.
type Page struct {
	ID           string              `json:"id"`
	View         models.ViewState    `json:"view"`
	MenuOpen     bool                `json:"menuOpen"`
	ScrollTo     string              `json:"scrollTo,omitempty"`
	Notice       string              `json:"notice,omitempty"`
	Placement    placement.State     `json:"placement"`
	Registration registration.State  `json:"registration"`
	Admin        admin.SessionState  `json:"admin"`
	Registrants  []models.Registrant `json:"registrants,omitempty"`
}

// Store is the state container of one visitor
type Store struct {
	id     string
	logger *slog.Logger

	mu       sync.Mutex
	nav      *navigation.Navigator
	notice   string
	lastSeen time.Time

	placement *placement.Flow
	intake    *registration.Intake
	admin     *admin.Session
	notifier  Notifier
	directory *admin.Directory
}

// NewStore creates a visitor on the HOME view
func NewStore(id string, deps Deps) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("visit_id", id)

	s := &Store{
		id:        id,
		logger:    logger,
		nav:       navigation.New(),
		lastSeen:  time.Now(),
		notifier:  deps.Notifier,
		directory: deps.Directory,
	}
	s.placement = placement.New(deps.Evaluator, s.placementConfirmed)
	s.intake = registration.New(deps.Registrants, deps.Courses, s.registered, registration.WithLogger(logger))
	s.admin = admin.NewSession(deps.Auth, deps.Directory, logger)
	return s
}

// ID returns the visit id
func (s *Store) ID() string {
	return s.id
}

// LastSeen returns the time of the last action
func (s *Store) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Page renders the current state and hands out the pending scroll and
// notice
func (s *Store) Page() Page {
	s.mu.Lock()
	p := Page{
		ID:       s.id,
		View:     s.nav.Current(),
		MenuOpen: s.nav.MenuOpen(),
		Notice:   s.notice,
	}
	s.notice = ""
	if anchor, ok := s.nav.TakeScroll(); ok {
		p.ScrollTo = anchor
	}
	s.mu.Unlock()

	p.Placement = s.placement.State()
	p.Registration = s.intake.State()
	p.Admin = s.admin.State()
	if p.Admin.Authenticated {
		p.Registrants, _ = s.admin.Registrants()
	}
	return p
}

// Navigate switches the active view
func (s *Store) Navigate(view models.ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.nav.NavigateTo(view)
}

// ToggleMenu flips the mobile menu
func (s *Store) ToggleMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	s.nav.ToggleMenu()
}

// ScrollTo moves to HOME and schedules a scroll to anchor
func (s *Store) ScrollTo(anchor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.nav.ScrollToAnchor(anchor)
}

// SetPlacementText edits the placement text
func (s *Store) SetPlacementText(text string) bool {
	s.touch()
	return s.placement.SetText(text)
}

// SubmitPlacement evaluates the placement text
func (s *Store) SubmitPlacement(ctx context.Context) bool {
	s.touch()
	return s.placement.Submit(ctx)
}

// ResetPlacement clears the placement result
func (s *Store) ResetPlacement() bool {
	s.touch()
	return s.placement.Reset()
}

// ConfirmPlacement carries the assessed level to the registration form
func (s *Store) ConfirmPlacement() bool {
	s.touch()
	return s.placement.Confirm()
}

func (s *Store) placementConfirmed(level models.Level) {
	s.intake.Prefill(level)

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.nav.NavigateTo(models.ViewRegister)
}

// SetMode toggles the learning mode of the registration form
func (s *Store) SetMode(mode models.Mode) error {
	s.touch()
	return s.intake.SetMode(mode)
}

// Register submits the registration form
func (s *Store) Register(ctx context.Context, fields registration.Fields) (*models.Registrant, error) {
	s.touch()
	return s.intake.Submit(ctx, fields)
}

func (s *Store) registered(r models.Registrant) {
	s.logger.Info("registrant created", "registrant_id", r.ID, "course", r.CourseInterest, "level", r.Level)

	s.directory.Prepend(r)
	if s.notifier != nil {
		s.notifier.Registered(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = RegisteredNotice
	_ = s.nav.NavigateTo(models.ViewHome)
}

// Login signs the visitor in as admin
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	s.touch()
	return s.admin.Login(ctx, identifier, secret)
}

// Logout signs out and returns to HOME
func (s *Store) Logout(ctx context.Context) {
	s.touch()
	s.admin.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.nav.NavigateTo(models.ViewHome)
}

// Restore adopts an existing admin session from its bearer token
func (s *Store) Restore(ctx context.Context, token string) bool {
	return s.admin.Restore(ctx, token)
}

// AdminToken returns the bearer token of the signed-in admin, if any
func (s *Store) AdminToken() string {
	return s.admin.Token()
}

// ReloadDirectory refetches the registrant directory
func (s *Store) ReloadDirectory(ctx context.Context) error {
	s.touch()
	return s.admin.LoadDirectory(ctx)
}

// Export writes the directory as CSV
func (s *Store) Export(w io.Writer) error {
	s.touch()
	rows, err := s.admin.Registrants()
	if err != nil {
		return err
	}
	return admin.WriteCSV(w, rows)
}
