package api

import (
	"context"

	"github.com/frenchcercle/cercle/internal/models"
	"github.com/frenchcercle/cercle/internal/site"
)

type contextKey string

const (
	sessionContextKey contextKey = "admin_session"
	visitContextKey   contextKey = "visit"
)

// SessionFromContext extracts the admin session from context
func SessionFromContext(ctx context.Context) *models.AdminSession {
	session, ok := ctx.Value(sessionContextKey).(*models.AdminSession)
	if !ok {
		return nil
	}
	return session
}

// ContextWithSession adds the admin session to context
func ContextWithSession(ctx context.Context, session *models.AdminSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func visitFromContext(ctx context.Context) *site.Store {
	s, _ := ctx.Value(visitContextKey).(*site.Store)
	return s
}
