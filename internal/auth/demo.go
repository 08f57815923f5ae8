package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// demoIdentifier names the single demo admin
const demoIdentifier = "demo"

// DefaultDemoPassword is the shared secret of a fresh install. Only this
// value is ever quoted back in a rejection.
const DefaultDemoPassword = "admin123"

// DemoAuthenticator accepts one shared secret. It is a reduced-security
// fallback for installs without a database and Redis.
type DemoAuthenticator struct {
	secret   string
	sessions *MemorySessionStore
	tokens   *TokenIssuer
	ttl      time.Duration
}

// NewDemoAuthenticator creates the shared secret backend
func NewDemoAuthenticator(secret string, tokens *TokenIssuer, ttl time.Duration) *DemoAuthenticator {
	return &DemoAuthenticator{
		secret:   secret,
		sessions: NewMemorySessionStore(),
		tokens:   tokens,
		ttl:      ttl,
	}
}

func (a *DemoAuthenticator) Mode() models.AuthMode {
	return models.AuthModeDemo
}

// SignIn ignores the identifier and compares the secret
func (a *DemoAuthenticator) SignIn(ctx context.Context, _ string, secret string) (*models.AdminSession, error) {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.secret)) != 1 {
		return nil, &RejectionError{Reason: a.rejection()}
	}
	return openSession(ctx, a.sessions, a.tokens, demoIdentifier, a.ttl, a.Mode())
}

func (a *DemoAuthenticator) rejection() string {
	if a.secret == DefaultDemoPassword {
		return fmt.Sprintf("Incorrect password. Demo mode is active: use the demo password %q.", DefaultDemoPassword)
	}
	return "Incorrect password. Demo mode is active: use the demo password set by the site operator."
}

func (a *DemoAuthenticator) SignOut(ctx context.Context, token string) error {
	return closeSession(ctx, a.sessions, a.tokens, token)
}

func (a *DemoAuthenticator) CurrentSession(ctx context.Context, token string) (*models.AdminSession, error) {
	return lookupSession(ctx, a.sessions, a.tokens, token, a.Mode())
}
