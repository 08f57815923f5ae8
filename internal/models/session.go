package models

import "time"

// AuthMode tells which authentication collaborator backs an admin session
type AuthMode string

const (
	AuthModeRemote AuthMode = "remote"
	// AuthModeDemo is the reduced-security shared secret fallback
	AuthModeDemo AuthMode = "demo"
)

// AdminSession represents a signed-in back-office user
type AdminSession struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	Identifier    string    `json:"identifier,omitempty"`
	Token         string    `json:"-"`
	Mode          AuthMode  `json:"mode"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// IsExpired checks if the session lifetime has elapsed
func (s *AdminSession) IsExpired() bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(s.ExpiresAt)
}
