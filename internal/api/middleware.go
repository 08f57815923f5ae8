package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/site"
)

// AuthMiddleware checks admin bearer tokens
type AuthMiddleware struct {
	auth auth.Authenticator
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(authenticator auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: authenticator}
}

// Authenticate resolves the bearer token to a live admin session.
// Browsers cannot set headers on websocket upgrades, so the token may
// also come from the access_token query parameter.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("access_token")
		}
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing_token", "provide an Authorization header with a Bearer token")
			return
		}

		session, err := m.auth.CurrentSession(r.Context(), token)
		if err != nil {
			slog.Error("failed to look up admin session", "error", err, "token_prefix", maskKey(token))
			respondError(w, http.StatusServiceUnavailable, "auth_unavailable", "authentication is temporarily unavailable")
			return
		}
		if session == nil || session.IsExpired() {
			slog.Warn("invalid admin token", "token_prefix", maskKey(token), "remote_addr", r.RemoteAddr)
			respondError(w, http.StatusUnauthorized, "invalid_token", "the session has expired or was revoked")
			return
		}

		slog.Debug("authenticated admin request", "identifier", session.Identifier)

		ctx := ContextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// visitContext loads the visit named by the {id} URL parameter
func (s *Server) visitContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		visit, err := s.visits.Get(id)
		if err != nil {
			if errors.Is(err, site.ErrVisitNotFound) {
				respondError(w, http.StatusNotFound, "not_found", "visit not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load visit")
			return
		}
		ctx := context.WithValue(r.Context(), visitContextKey, visit)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token of a "Bearer xxx" Authorization header
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// maskKey returns first 8 chars of key for safe logging
func maskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:8] + "..."
}
