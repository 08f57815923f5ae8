package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/frenchcercle/cercle/internal/models"
)

func openTestLocal(t *testing.T, path string) *LocalRepository {
	t.Helper()
	r, err := OpenLocalRepository(context.Background(), path)
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func newRegistrant(first string) models.NewRegistrant {
	return models.NewRegistrant{
		FirstName:      first,
		LastName:       "Durand",
		Email:          first + "@example.com",
		CourseInterest: "French for Travel",
		Level:          "A2",
		Mode:           models.ModeOnline,
		SubmittedDate:  "2026-03-14",
	}
}

func TestLocalRepository_NewestFirst(t *testing.T) {
	r := openTestLocal(t, filepath.Join(t.TempDir(), "cercle.db"))
	ctx := context.Background()

	alice, err := r.CreateRegistrant(ctx, newRegistrant("Alice"))
	if err != nil {
		t.Fatalf("create Alice: %v", err)
	}
	bob, err := r.CreateRegistrant(ctx, newRegistrant("Bob"))
	if err != nil {
		t.Fatalf("create Bob: %v", err)
	}

	list, err := r.ListRegistrants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != bob.ID || list[1].ID != alice.ID {
		t.Fatalf("expected [Bob, Alice], got %+v", list)
	}
	if alice.ID == bob.ID {
		t.Error("ids must be unique")
	}
	if _, err := uuid.Parse(alice.ID); err != nil {
		t.Errorf("expected uuid id, got %q", alice.ID)
	}
	if alice.Status != models.StatusPending {
		t.Errorf("expected PENDING, got %s", alice.Status)
	}
	if alice.Mode != models.ModeOnline {
		t.Errorf("expected ONLINE in the core, got %s", alice.Mode)
	}
}

func TestLocalRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cercle.db")
	ctx := context.Background()

	r, err := OpenLocalRepository(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	created, err := r.CreateRegistrant(ctx, newRegistrant("Chloé"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	r.Close()

	reopened := openTestLocal(t, path)
	list, err := reopened.ListRegistrants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].FirstName != "Chloé" {
		t.Fatalf("unexpected collection after reopen: %+v", list)
	}
	if list[0].SubmittedDate != "2026-03-14" {
		t.Errorf("unexpected date %q", list[0].SubmittedDate)
	}
}

func TestLocalRepository_StoresSnakeCaseBlob(t *testing.T) {
	r := openTestLocal(t, filepath.Join(t.TempDir(), "cercle.db"))
	ctx := context.Background()
	if _, err := r.CreateRegistrant(ctx, newRegistrant("Dana")); err != nil {
		t.Fatalf("create: %v", err)
	}

	var blob string
	if err := r.db.QueryRow(`SELECT value FROM kv WHERE key = 'registrants'`).Scan(&blob); err != nil {
		t.Fatalf("read blob: %v", err)
	}
	for _, want := range []string{`"first_name":"Dana"`, `"course_interest"`, `"type":"ZOOM"`} {
		if !strings.Contains(blob, want) {
			t.Errorf("blob missing %s: %s", want, blob)
		}
	}
}

func TestLocalRepository_Closed(t *testing.T) {
	r := openTestLocal(t, filepath.Join(t.TempDir(), "cercle.db"))
	r.Close()
	if _, err := r.ListRegistrants(context.Background()); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
