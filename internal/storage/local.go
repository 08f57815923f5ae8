package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/frenchcercle/cercle/internal/models"
)

// registrantsKey is the kv key holding the whole collection
const registrantsKey = "registrants"

// LocalRepository keeps the registrant collection as one JSON blob in a
// SQLite kv table. The blob is read once at open and rewritten after every
// successful create. Ids are UUIDv7 strings.
type LocalRepository struct {
	mu     sync.Mutex
	db     *sql.DB
	rows   []registrantRow
	now    func() time.Time
	closed bool
}

// OpenLocalRepository opens or creates the SQLite file at path
func OpenLocalRepository(ctx context.Context, path string) (*LocalRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// one writer keeps the blob consistent
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	r := &LocalRepository{db: db, now: time.Now}
	if err := r.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (r *LocalRepository) load(ctx context.Context) error {
	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, registrantsKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		r.rows = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read registrants: %w", err)
	}
	if err := json.Unmarshal(blob, &r.rows); err != nil {
		return fmt.Errorf("failed to decode registrants: %w", err)
	}
	return nil
}

func (r *LocalRepository) save(ctx context.Context, rows []registrantRow) error {
	blob, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode registrants: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		registrantsKey, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to write registrants: %w", err)
	}
	return nil
}

// ListRegistrants returns the collection, newest first
func (r *LocalRepository) ListRegistrants(ctx context.Context) ([]models.Registrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	out := make([]models.Registrant, len(r.rows))
	for i, row := range r.rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

// CreateRegistrant prepends a PENDING registrant and rewrites the blob. The
// in-memory collection only changes when the write succeeds.
func (r *LocalRepository) CreateRegistrant(ctx context.Context, nr models.NewRegistrant) (*models.Registrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	reg := pendingRegistrant(nr)
	reg.ID = id.String()
	reg.CreatedAt = r.now().UTC()
	row := toRow(reg)

	next := make([]registrantRow, 0, len(r.rows)+1)
	next = append(next, row)
	next = append(next, r.rows...)

	if err := r.save(ctx, next); err != nil {
		return nil, err
	}
	r.rows = next

	reg = fromRow(row)
	return &reg, nil
}

// Ping checks the SQLite handle
func (r *LocalRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the SQLite handle
func (r *LocalRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}
