package auth

import (
	"context"
	"sync"
	"time"
)

// SessionRecord is what a session store keeps per session id
type SessionRecord struct {
	Identifier string    `json:"identifier"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// SessionStore keeps live admin sessions keyed by id
type SessionStore interface {
	Save(ctx context.Context, id string, rec SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) (int, error)
}

// MemorySessionStore is an in-process SessionStore
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]SessionRecord
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]SessionRecord),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Save(_ context.Context, id string, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = rec
	return nil
}

// Get returns ErrSessionNotFound for missing or expired sessions
func (m *MemorySessionStore) Get(_ context.Context, id string) (*SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !rec.ExpiresAt.IsZero() && m.now().After(rec.ExpiresAt) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) Purge(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = make(map[string]SessionRecord)
	return n, nil
}
