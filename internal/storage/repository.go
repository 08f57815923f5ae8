// Package storage persists registrants. PostgresRepository is the remote
// store; LocalRepository keeps the whole collection in a single SQLite
// blob and is used when no database is configured.
package storage

import (
	"context"
	"errors"

	"github.com/frenchcercle/cercle/internal/models"
)

// ErrClosed is returned by operations on a closed repository
var ErrClosed = errors.New("repository is closed")

// Repository defines registrant persistence
type Repository interface {
	// ListRegistrants returns every registrant, newest first
	ListRegistrants(ctx context.Context) ([]models.Registrant, error)

	// CreateRegistrant stores r and returns it with its id, status and
	// creation time assigned. Status is always PENDING.
	CreateRegistrant(ctx context.Context, r models.NewRegistrant) (*models.Registrant, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
