package storage

import (
	"testing"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

func TestTypeMapping(t *testing.T) {
	if got := modeToType(models.ModeOnline); got != "ZOOM" {
		t.Errorf("ONLINE must be stored as ZOOM, got %q", got)
	}
	if got := modeToType(models.ModeInPerson); got != "IN_PERSON" {
		t.Errorf("expected IN_PERSON, got %q", got)
	}

	tests := []struct {
		stored string
		want   models.Mode
	}{
		{"ZOOM", models.ModeOnline},
		{"ONLINE", models.ModeOnline},
		{"IN_PERSON", models.ModeInPerson},
	}
	for _, tt := range tests {
		if got := typeToMode(tt.stored); got != tt.want {
			t.Errorf("typeToMode(%q) = %q, want %q", tt.stored, got, tt.want)
		}
	}
}

func TestRowRoundTrip(t *testing.T) {
	r := models.Registrant{
		ID:             "42",
		FirstName:      "Élodie",
		LastName:       "Roux",
		Email:          "elodie@example.com",
		CourseInterest: "French for Conversation",
		Level:          "B2",
		Mode:           models.ModeInPerson,
		Status:         models.StatusContacted,
		SubmittedDate:  "2026-01-02",
	}
	if got := fromRow(toRow(r)); got != r {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestPendingRowForNewRegistrant(t *testing.T) {
	row := toRow(pendingRegistrant(models.NewRegistrant{
		FirstName:      "Dana",
		LastName:       "Petit",
		Email:          "dana@example.com",
		CourseInterest: "French for Travel",
		Level:          "A2",
		Mode:           models.ModeOnline,
		SubmittedDate:  "2026-05-01",
	}))

	if row.Status != string(models.StatusPending) {
		t.Errorf("new registrants must be PENDING, got %q", row.Status)
	}
	if row.Type != "ZOOM" {
		t.Errorf("ONLINE must be written as ZOOM, got %q", row.Type)
	}
	if row.ID != "" || !row.CreatedAt.IsZero() {
		t.Errorf("id and creation time belong to the store, got %+v", row)
	}
	if row.FirstName != "Dana" || row.CourseInterest != "French for Travel" || row.Date != "2026-05-01" {
		t.Errorf("fields not carried over: %+v", row)
	}
}

func TestFromRowDefaultsStatus(t *testing.T) {
	if got := fromRow(registrantRow{Type: "ZOOM"}); got.Status != models.StatusPending {
		t.Errorf("missing status must read as PENDING, got %q", got.Status)
	}
}

func TestFromRowDateFallsBackToCreatedAt(t *testing.T) {
	row := registrantRow{Type: "IN_PERSON", CreatedAt: time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)}
	if got := fromRow(row).SubmittedDate; got != "2025-12-31" {
		t.Errorf("expected creation date, got %q", got)
	}
}
