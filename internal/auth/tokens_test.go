package auth

import (
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := newIssuer(t)
	token, id, err := tokens.Issue("admin@frenchcercle.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.ID != id || claims.Subject != "admin@frenchcercle.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	tokens := newIssuer(t)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _ := tokens.Issue("demo", time.Hour)

	tokens.now = time.Now
	if _, err := tokens.Parse(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestTokenIssuer_RandomKey(t *testing.T) {
	a, _ := NewTokenIssuer("")
	b, _ := NewTokenIssuer("")
	token, _, _ := a.Issue("demo", time.Hour)
	if _, err := b.Parse(token); err == nil {
		t.Fatal("tokens from another random key must be rejected")
	}
}
