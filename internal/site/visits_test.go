package site

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVisitsLifecycle(t *testing.T) {
	deps, _, _ := newDeps(t, nil)
	v := NewVisits(deps, time.Hour)
	ctx := context.Background()

	s := v.Create(ctx, "")
	if s.ID() == "" {
		t.Fatal("expected visit id")
	}
	got, err := v.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if v.Len() != 1 {
		t.Errorf("expected 1 visit, got %d", v.Len())
	}

	if err := v.Delete(ctx, s.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := v.Get(s.ID()); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("expected ErrVisitNotFound, got %v", err)
	}
	if err := v.Delete(ctx, s.ID()); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("expected ErrVisitNotFound, got %v", err)
	}
}

func TestVisitsRestoreAdmin(t *testing.T) {
	deps, _, _ := newDeps(t, nil)
	v := NewVisits(deps, time.Hour)
	ctx := context.Background()

	first := v.Create(ctx, "")
	if err := first.Login(ctx, "", "admin123"); err != nil {
		t.Fatal(err)
	}

	second := v.Create(ctx, first.AdminToken())
	if !second.Page().Admin.Authenticated {
		t.Error("bearer token must restore the admin session")
	}

	third := v.Create(ctx, "not-a-token")
	if third.Page().Admin.Authenticated {
		t.Error("invalid token must not authenticate")
	}
}

func TestVisitsExpired(t *testing.T) {
	deps, _, _ := newDeps(t, nil)
	v := NewVisits(deps, time.Hour)
	ctx := context.Background()

	v.Create(ctx, "")
	v.Create(ctx, "")
	v.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	expired, err := v.Expired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 2 {
		t.Fatalf("expected 2 idle visits, got %d", len(expired))
	}

	v.now = time.Now
	expired, _ = v.Expired(ctx)
	if len(expired) != 0 {
		t.Errorf("fresh visits must not expire, got %d", len(expired))
	}
}
