package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/config"
	"github.com/frenchcercle/cercle/internal/health"
	"github.com/frenchcercle/cercle/internal/llm"
	"github.com/frenchcercle/cercle/internal/notify"
	"github.com/frenchcercle/cercle/internal/storage"
)

// openRepository connects the Postgres store, or the local SQLite store
// when no DSN is configured
func openRepository(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	if cfg.Database.DSN == "" {
		slog.Info("no database configured, using local store", "path", cfg.Local.StorePath)
		return storage.OpenLocalRepository(ctx, cfg.Local.StorePath)
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		return nil, err
	}
	slog.Info("database connected successfully")
	return repo, nil
}

type authBackend struct {
	authenticator auth.Authenticator
	closers       []func() error
}

func (b *authBackend) Close() {
	for _, c := range b.closers {
		if err := c(); err != nil {
			slog.Error("auth backend close error", "error", err)
		}
	}
}

// buildAuthenticator picks the remote backend when both Postgres and Redis
// are configured, the demo backend otherwise
func buildAuthenticator(ctx context.Context, cfg *config.Config, registry *health.Registry) (*authBackend, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET not set, admin tokens will not survive a restart")
	}

	if !cfg.RemoteAuth() {
		slog.Warn("remote admin authentication not configured, demo mode is active")
		return &authBackend{
			authenticator: auth.NewDemoAuthenticator(cfg.Auth.DemoPassword, tokens, cfg.Auth.SessionTTL),
		}, nil
	}

	accounts, err := auth.OpenAccountStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	sessions, err := auth.NewRedisSessionStore(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		accounts.Close()
		return nil, err
	}

	if registry != nil {
		registry.Register("redis", sessions)
		registry.Register("accounts", accounts)
	}

	return &authBackend{
		authenticator: auth.NewRemoteAuthenticator(accounts, sessions, tokens, cfg.Auth.SessionTTL),
		closers:       []func() error{sessions.Close, accounts.Close},
	}, nil
}

// buildEvaluator returns nil when no evaluator key is configured; every
// placement submission then resolves to the fallback result
func buildEvaluator(ctx context.Context) (llm.Provider, error) {
	cfg := llm.ResolveConfig()
	provider, err := llm.NewProvider(ctx, cfg, slog.Default())
	if errors.Is(err, llm.ErrNoCredential) {
		slog.Warn("no evaluator API key configured, placement results will use the fallback")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}
	slog.Info("evaluator configured", "provider", cfg.Provider, "model", provider.ModelID())
	return provider, nil
}

func buildMailer(cfg *config.Config) notify.Mailer {
	if cfg.Mail.SendGridKey == "" {
		slog.Info("SENDGRID_API_KEY not set, confirmation mails go to the log")
		return notify.NewConsoleMailer(slog.Default())
	}
	return notify.NewSendGridMailer(cfg.Mail.SendGridKey, cfg.Mail.FromName, cfg.Mail.FromAddress, "")
}
