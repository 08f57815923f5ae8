package storage

import (
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// legacy wire value stored for ONLINE registrants
const typeZoom = "ZOOM"

// registrantRow is the snake_case shape of a registrant at the storage
// boundary
type registrantRow struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	CourseInterest string    `json:"course_interest"`
	Level          string    `json:"level"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Date           string    `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

// modeToType maps a core mode onto the stored type column
func modeToType(m models.Mode) string {
	if m == models.ModeOnline {
		return typeZoom
	}
	return string(m)
}

// typeToMode accepts both the legacy ZOOM and the ONLINE spelling
func typeToMode(t string) models.Mode {
	switch t {
	case typeZoom, string(models.ModeOnline):
		return models.ModeOnline
	case string(models.ModeInPerson):
		return models.ModeInPerson
	}
	return models.Mode(t)
}

// pendingRegistrant is the core registrant a create stores before the
// store assigns its id and creation time. Status is always PENDING.
func pendingRegistrant(nr models.NewRegistrant) models.Registrant {
	return models.Registrant{
		FirstName:      nr.FirstName,
		LastName:       nr.LastName,
		Email:          nr.Email,
		CourseInterest: nr.CourseInterest,
		Level:          nr.Level,
		Mode:           nr.Mode,
		Status:         models.StatusPending,
		SubmittedDate:  nr.SubmittedDate,
	}
}

func toRow(r models.Registrant) registrantRow {
	return registrantRow{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		CourseInterest: r.CourseInterest,
		Level:          r.Level,
		Type:           modeToType(r.Mode),
		Status:         string(r.Status),
		Date:           r.SubmittedDate,
		CreatedAt:      r.CreatedAt,
	}
}

func fromRow(row registrantRow) models.Registrant {
	status := models.RegistrantStatus(row.Status)
	if status == "" {
		status = models.StatusPending
	}
	date := row.Date
	if date == "" && !row.CreatedAt.IsZero() {
		date = row.CreatedAt.UTC().Format(models.DateLayout)
	}
	return models.Registrant{
		ID:             row.ID,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Email:          row.Email,
		CourseInterest: row.CourseInterest,
		Level:          row.Level,
		Mode:           typeToMode(row.Type),
		Status:         status,
		SubmittedDate:  date,
		CreatedAt:      row.CreatedAt,
	}
}
