package site

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrVisitNotFound is returned for unknown or expired visit ids
var ErrVisitNotFound = errors.New("visit not found")

// Visits keeps the live visitor stores by id
type Visits struct {
	mu      sync.RWMutex
	visits  map[string]*Store
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time
}

// NewVisits creates an empty visit registry. Visits idle for longer than
// idleTTL are reported by Expired.
func NewVisits(deps Deps, idleTTL time.Duration) *Visits {
	return &Visits{
		visits:  make(map[string]*Store),
		deps:    deps,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Create starts a visit. A non-empty token is checked once against the
// authentication collaborator to restore an admin session.
func (v *Visits) Create(ctx context.Context, token string) *Store {
	s := NewStore(uuid.NewString(), v.deps)
	if token != "" {
		s.Restore(ctx, token)
	}

	v.mu.Lock()
	v.visits[s.ID()] = s
	v.mu.Unlock()
	return s
}

// Get returns the visit with id
func (v *Visits) Get(id string) (*Store, error) {
	v.mu.RLock()
	s, ok := v.visits[id]
	v.mu.RUnlock()
	if !ok {
		return nil, ErrVisitNotFound
	}
	return s, nil
}

// Delete drops a visit
func (v *Visits) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.visits[id]; !ok {
		return ErrVisitNotFound
	}
	delete(v.visits, id)
	return nil
}

// Len returns the number of live visits
func (v *Visits) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.visits)
}

// Expired lists visits idle for longer than the idle TTL
func (v *Visits) Expired(ctx context.Context) ([]*Store, error) {
	cutoff := v.now().Add(-v.idleTTL)

	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []*Store
	for _, s := range v.visits {
		if s.LastSeen().Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}
