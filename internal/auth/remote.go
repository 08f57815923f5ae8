package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// rejection text for wrong credentials in remote mode
const remoteRejection = "Invalid login credentials"

// Verifier checks an identifier and secret pair
type Verifier interface {
	Verify(ctx context.Context, email, password string) error
}

// RemoteAuthenticator authenticates against stored admin accounts
type RemoteAuthenticator struct {
	accounts Verifier
	sessions SessionStore
	tokens   *TokenIssuer
	ttl      time.Duration
}

// NewRemoteAuthenticator creates the real authentication backend
func NewRemoteAuthenticator(accounts Verifier, sessions SessionStore, tokens *TokenIssuer, ttl time.Duration) *RemoteAuthenticator {
	return &RemoteAuthenticator{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
	}
}

func (a *RemoteAuthenticator) Mode() models.AuthMode {
	return models.AuthModeRemote
}

func (a *RemoteAuthenticator) SignIn(ctx context.Context, identifier, secret string) (*models.AdminSession, error) {
	if identifier == "" || secret == "" {
		return nil, &RejectionError{Reason: "Email and password are required"}
	}

	if err := a.accounts.Verify(ctx, identifier, secret); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, &RejectionError{Reason: remoteRejection}
		}
		return nil, fmt.Errorf("failed to verify admin: %w", err)
	}

	return openSession(ctx, a.sessions, a.tokens, normalizeEmail(identifier), a.ttl, a.Mode())
}

func (a *RemoteAuthenticator) SignOut(ctx context.Context, token string) error {
	return closeSession(ctx, a.sessions, a.tokens, token)
}

func (a *RemoteAuthenticator) CurrentSession(ctx context.Context, token string) (*models.AdminSession, error) {
	return lookupSession(ctx, a.sessions, a.tokens, token, a.Mode())
}

func openSession(ctx context.Context, store SessionStore, tokens *TokenIssuer, identifier string, ttl time.Duration, mode models.AuthMode) (*models.AdminSession, error) {
	token, id, err := tokens.Issue(identifier, ttl)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := SessionRecord{Identifier: identifier, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	if err := store.Save(ctx, id, rec); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &models.AdminSession{
		ID:            id,
		Authenticated: true,
		Identifier:    identifier,
		Token:         token,
		Mode:          mode,
		CreatedAt:     rec.CreatedAt,
		ExpiresAt:     rec.ExpiresAt,
	}, nil
}

func closeSession(ctx context.Context, store SessionStore, tokens *TokenIssuer, token string) error {
	if token == "" {
		return nil
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		// expired or foreign tokens have nothing left to revoke
		return nil
	}
	return store.Delete(ctx, claims.ID)
}

func lookupSession(ctx context.Context, store SessionStore, tokens *TokenIssuer, token string, mode models.AuthMode) (*models.AdminSession, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	rec, err := store.Get(ctx, claims.ID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.AdminSession{
		ID:            claims.ID,
		Authenticated: true,
		Identifier:    rec.Identifier,
		Token:         token,
		Mode:          mode,
		CreatedAt:     rec.CreatedAt,
		ExpiresAt:     rec.ExpiresAt,
	}, nil
}
