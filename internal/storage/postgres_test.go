package storage

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// Integration test: runs only with TEST_DATABASE_DSN pointing at a
// disposable database.
func TestPostgresRepository_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := NewPostgresRepository(ctx, PostgresConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer repo.Close()

	if err := RunMigrations(ctx, repo.Pool(), Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := repo.Pool().Exec(ctx, `TRUNCATE registrants`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	alice, err := repo.CreateRegistrant(ctx, newRegistrant("Alice"))
	if err != nil {
		t.Fatalf("create Alice: %v", err)
	}
	bob, err := repo.CreateRegistrant(ctx, newRegistrant("Bob"))
	if err != nil {
		t.Fatalf("create Bob: %v", err)
	}
	if _, err := strconv.ParseInt(alice.ID, 10, 64); err != nil {
		t.Errorf("expected numeric id, got %q", alice.ID)
	}
	if alice.Status != models.StatusPending || alice.SubmittedDate != "2026-03-14" {
		t.Errorf("unexpected stored registrant %+v", alice)
	}

	list, err := repo.ListRegistrants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != bob.ID || list[1].ID != alice.ID {
		t.Fatalf("expected [Bob, Alice], got %+v", list)
	}
	if list[0].Mode != models.ModeOnline {
		t.Errorf("expected ONLINE, got %s", list[0].Mode)
	}
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames(Migrations())
	if err != nil {
		t.Fatalf("migrationNames: %v", err)
	}
	if len(names) != 2 || names[0] != "001_registrants.sql" || names[1] != "002_admins.sql" {
		t.Errorf("unexpected migrations %v", names)
	}
}
