package models

import (
	"fmt"
	"time"
)

// Mode is the learning mode chosen at registration
type Mode string

const (
	ModeOnline   Mode = "ONLINE"
	ModeInPerson Mode = "IN_PERSON"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeInPerson
}

// ParseMode converts a raw tag into a Mode
func ParseMode(raw string) (Mode, error) {
	m := Mode(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode: %q", raw)
	}
	return m, nil
}

// RegistrantStatus represents where a registrant is in the enrollment pipeline
type RegistrantStatus string

const (
	StatusPending   RegistrantStatus = "PENDING"
	StatusContacted RegistrantStatus = "CONTACTED"
	StatusEnrolled  RegistrantStatus = "ENROLLED"
)

// DateLayout is the calendar date format used for submitted dates
const DateLayout = "2006-01-02"

// Registrant is a prospective student who filled in the registration form
type Registrant struct {
	ID             string           `json:"id"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	CourseInterest string           `json:"courseInterest"`
	Level          string           `json:"level"`
	Mode           Mode             `json:"mode"`
	Status         RegistrantStatus `json:"status"`
	SubmittedDate  string           `json:"submittedDate"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// NewRegistrant holds the fields of a registrant before the store assigns
// its identity and status
type NewRegistrant struct {
	FirstName      string
	LastName       string
	Email          string
	CourseInterest string
	Level          string
	Mode           Mode
	SubmittedDate  string
}
