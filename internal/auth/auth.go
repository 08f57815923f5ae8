// Package auth checks admin credentials. The remote authenticator verifies
// bcrypt hashes stored in Postgres and keeps sessions in Redis behind
// signed tokens; the demo authenticator compares a single shared secret
// and is used when no remote backend is configured.
package auth

import (
	"context"
	"errors"

	"github.com/frenchcercle/cercle/internal/models"
)

var (
	// ErrInvalidCredentials is returned by account checks on a bad
	// identifier or password
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrSessionNotFound is returned when a token has no live session
	ErrSessionNotFound = errors.New("session not found")
)

// RejectionError is a refused sign-in. Reason is shown to the user as is.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// Authenticator is the admin authentication collaborator
type Authenticator interface {
	// Mode tells whether this is the real or the demo backend
	Mode() models.AuthMode

	// SignIn returns an authenticated session or a *RejectionError
	SignIn(ctx context.Context, identifier, secret string) (*models.AdminSession, error)

	// SignOut ends the session behind token. Unknown tokens are ignored.
	SignOut(ctx context.Context, token string) error

	// CurrentSession returns the live session behind token, or nil
	CurrentSession(ctx context.Context, token string) (*models.AdminSession, error)
}
