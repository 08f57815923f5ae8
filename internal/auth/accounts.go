package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore reads and writes admin accounts in the admins table
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore wraps an open database handle
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// OpenAccountStore connects with the lib/pq driver
func OpenAccountStore(ctx context.Context, dsn string) (*AccountStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &AccountStore{db: db}, nil
}

// normalizeEmail lower-cases and trims an identifier
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Verify checks the password of the account. Unknown accounts and wrong
// passwords both return ErrInvalidCredentials.
func (s *AccountStore) Verify(ctx context.Context, email, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM admins WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to load admin account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Upsert creates the account or replaces its password
func (s *AccountStore) Upsert(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid admin email: %q", email)
	}
	if len(password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, email, string(hash))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "undefined_table" {
			return fmt.Errorf("admins table missing, run migrations first: %w", err)
		}
		return fmt.Errorf("failed to save admin account: %w", err)
	}
	return nil
}

// HealthCheck pings the database
func (s *AccountStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *AccountStore) Close() error {
	return s.db.Close()
}
