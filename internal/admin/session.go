// Package admin gates the registrant directory behind an authentication
// collaborator and exports it as CSV.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/models"
)

// ErrBusy is returned while a login is pending
var ErrBusy = errors.New("a login is already in progress")

// ErrUnauthenticated is returned by directory operations without a session
var ErrUnauthenticated = errors.New("admin session required")

// SessionState is a read-only snapshot of an admin session
type SessionState struct {
	Authenticated bool            `json:"authenticated"`
	Mode          models.AuthMode `json:"mode"`
	Identifier    string          `json:"identifier,omitempty"`
	Error         string          `json:"error,omitempty"`
	Placeholder   bool            `json:"placeholder,omitempty"`
}

// Session is the admin state machine of one visitor:
// UNAUTHENTICATED -> AUTHENTICATED on login, back on logout
type Session struct {
	mu        sync.Mutex
	auth      auth.Authenticator
	directory *Directory
	logger    *slog.Logger

	current    *models.AdminSession
	identifier string
	rejection  string
	pending    bool
}

// NewSession creates an unauthenticated session
func NewSession(authenticator auth.Authenticator, directory *Directory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{auth: authenticator, directory: directory, logger: logger}
}

// Login delegates to the authenticator. A rejection is returned as
// *auth.RejectionError and kept for display; on success the directory is
// loaded.
func (s *Session) Login(ctx context.Context, identifier, secret string) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.pending = true
	s.identifier = identifier
	s.mu.Unlock()

	session, err := s.auth.SignIn(ctx, identifier, secret)

	s.mu.Lock()
	s.pending = false
	if err != nil {
		s.current = nil
		var rej *auth.RejectionError
		if errors.As(err, &rej) {
			s.rejection = rej.Reason
		} else {
			s.rejection = "Login is temporarily unavailable. Please try again."
			s.logger.Error("admin sign-in failed", "error", err)
		}
		s.mu.Unlock()
		return err
	}
	s.current = session
	s.rejection = ""
	s.mu.Unlock()

	s.logger.Info("admin signed in", "identifier", session.Identifier, "mode", session.Mode)
	s.directory.Load(ctx)
	return nil
}

// Restore adopts the session behind token if it is still live. Used once
// when a visit starts.
func (s *Session) Restore(ctx context.Context, token string) bool {
	session, err := s.auth.CurrentSession(ctx, token)
	if err != nil {
		s.logger.Warn("failed to restore admin session", "error", err)
		return false
	}
	if session == nil {
		return false
	}

	s.mu.Lock()
	s.current = session
	s.identifier = session.Identifier
	s.mu.Unlock()

	s.directory.Load(ctx)
	return true
}

// Logout signs out, clears the credential fields and returns to
// UNAUTHENTICATED. A collaborator failure is logged; the local session is
// cleared regardless.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	token := ""
	if s.current != nil {
		token = s.current.Token
	}
	s.current = nil
	s.identifier = ""
	s.rejection = ""
	s.mu.Unlock()

	if err := s.auth.SignOut(ctx, token); err != nil {
		s.logger.Warn("admin sign-out failed", "error", err)
	}
}

// Authenticated reports whether the session is signed in and not expired
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticatedLocked()
}

func (s *Session) authenticatedLocked() bool {
	if s.current == nil {
		return false
	}
	if s.current.IsExpired() {
		s.current = nil
		return false
	}
	return s.current.Authenticated
}

// Token returns the bearer token of the signed-in session
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticatedLocked() {
		return ""
	}
	return s.current.Token
}

// LoadDirectory reloads the directory from the store
func (s *Session) LoadDirectory(ctx context.Context) error {
	if !s.Authenticated() {
		return ErrUnauthenticated
	}
	s.directory.Load(ctx)
	return nil
}

// Registrants returns the directory contents
func (s *Session) Registrants() ([]models.Registrant, error) {
	if !s.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.directory.List(), nil
}

// State returns a snapshot
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SessionState{
		Authenticated: s.authenticatedLocked(),
		Mode:          s.auth.Mode(),
		Identifier:    s.identifier,
		Error:         s.rejection,
	}
	if st.Authenticated {
		st.Placeholder = s.directory.IsPlaceholder()
	}
	return st
}
