package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "cercle/admin"

// SessionClaims are carried by admin session tokens. The JWT id names the
// session record in the session store.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 admin session tokens
type TokenIssuer struct {
	key []byte
	now func() time.Time
}

// NewTokenIssuer uses secret as the HMAC key. An empty secret gets a random
// per-process key, so tokens do not survive a restart.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}
	return &TokenIssuer{key: key, now: time.Now}, nil
}

// Issue returns a signed token and its session id
func (t *TokenIssuer) Issue(subject string, ttl time.Duration) (token, id string, err error) {
	now := t.now().UTC()
	id = uuid.NewString()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, id, nil
}

// Parse validates signature, issuer and expiry
func (t *TokenIssuer) Parse(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(tok *jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
