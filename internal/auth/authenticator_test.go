package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	tokens, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return tokens
}

func TestDemoRejectionHidesCustomPassword(t *testing.T) {
	a := NewDemoAuthenticator("s3cret-club-pass", newIssuer(t), time.Hour)

	_, err := a.SignIn(context.Background(), "", "admin123")
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if strings.Contains(rej.Reason, "s3cret-club-pass") {
		t.Errorf("rejection must not reveal a custom password: %q", rej.Reason)
	}
	if !strings.Contains(rej.Reason, "Demo mode") {
		t.Errorf("rejection must still say demo mode is active: %q", rej.Reason)
	}
}

func TestDemoAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewDemoAuthenticator(DefaultDemoPassword, newIssuer(t), time.Hour)

	if a.Mode() != models.AuthModeDemo {
		t.Errorf("expected demo mode, got %s", a.Mode())
	}

	_, err := a.SignIn(ctx, "", "wrong")
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if !strings.Contains(rej.Reason, "admin123") {
		t.Errorf("demo rejection must mention the demo password: %q", rej.Reason)
	}

	s, err := a.SignIn(ctx, "", "admin123")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if !s.Authenticated || s.Token == "" || s.Mode != models.AuthModeDemo {
		t.Fatalf("unexpected session %+v", s)
	}

	cur, err := a.CurrentSession(ctx, s.Token)
	if err != nil || cur == nil || cur.ID != s.ID {
		t.Fatalf("CurrentSession = %+v, %v", cur, err)
	}

	if err := a.SignOut(ctx, s.Token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if cur, _ := a.CurrentSession(ctx, s.Token); cur != nil {
		t.Error("session must be gone after sign out")
	}
}

type fakeVerifier struct {
	password string
	err      error
}

func (f fakeVerifier) Verify(_ context.Context, _, password string) error {
	if f.err != nil {
		return f.err
	}
	if password != f.password {
		return ErrInvalidCredentials
	}
	return nil
}

func TestRemoteAuthenticator(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessionStore()
	a := NewRemoteAuthenticator(fakeVerifier{password: "correct horse"}, sessions, newIssuer(t), time.Hour)

	_, err := a.SignIn(ctx, "admin@frenchcercle.com", "battery")
	var rej *RejectionError
	if !errors.As(err, &rej) || rej.Reason != remoteRejection {
		t.Fatalf("expected remote rejection, got %v", err)
	}
	if strings.Contains(rej.Reason, "demo") {
		t.Error("remote rejection must not mention demo mode")
	}

	s, err := a.SignIn(ctx, "Admin@FrenchCercle.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if s.Identifier != "admin@frenchcercle.com" || s.Mode != models.AuthModeRemote {
		t.Errorf("unexpected session %+v", s)
	}

	if n, _ := sessions.Purge(ctx); n != 1 {
		t.Errorf("expected 1 stored session, got %d", n)
	}
	if cur, _ := a.CurrentSession(ctx, s.Token); cur != nil {
		t.Error("purged session must not be restored")
	}
}

func TestRemoteAuthenticator_InfrastructureError(t *testing.T) {
	a := NewRemoteAuthenticator(fakeVerifier{err: errors.New("db down")}, NewMemorySessionStore(), newIssuer(t), time.Hour)
	_, err := a.SignIn(context.Background(), "admin@frenchcercle.com", "x")
	var rej *RejectionError
	if err == nil || errors.As(err, &rej) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestCurrentSession_ForeignToken(t *testing.T) {
	a := NewDemoAuthenticator("admin123", newIssuer(t), time.Hour)
	other, _ := NewTokenIssuer("other-secret")
	token, _, _ := other.Issue("demo", time.Hour)

	cur, err := a.CurrentSession(context.Background(), token)
	if err != nil || cur != nil {
		t.Fatalf("foreign token must not restore a session, got %+v, %v", cur, err)
	}
}
