package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/api"
	"github.com/frenchcercle/cercle/internal/assessment"
	"github.com/frenchcercle/cercle/internal/cleanup"
	"github.com/frenchcercle/cercle/internal/config"
	"github.com/frenchcercle/cercle/internal/content"
	"github.com/frenchcercle/cercle/internal/health"
	"github.com/frenchcercle/cercle/internal/notify"
	"github.com/frenchcercle/cercle/internal/site"
	"github.com/frenchcercle/cercle/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "apply pending migrations before starting")
}

func runServe(cmd *cobra.Command) error {
	migrate, _ := cmd.Flags().GetBool("migrate")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("starting cercle",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	if migrate && cfg.Database.DSN != "" {
		slog.Info("running database migrations")
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	repo, err := openRepository(initCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open registrant store: %w", err)
	}
	defer repo.Close()

	registry := health.NewRegistry()
	registry.Register("store", health.CheckFunc(repo.Ping))

	backend, err := buildAuthenticator(initCtx, cfg, registry)
	if err != nil {
		return fmt.Errorf("failed to set up admin authentication: %w", err)
	}
	defer backend.Close()

	evaluator, err := buildEvaluator(initCtx)
	if err != nil {
		return err
	}

	loader, err := content.NewLoader()
	if err != nil {
		return err
	}
	if err := loader.LoadFromDir(cfg.Content.Dir); err != nil {
		slog.Warn("failed to load content from dir", "dir", cfg.Content.Dir, "error", err)
	}

	directory := admin.NewDirectory(repo, slog.Default())
	notifier := notify.NewNotifier(buildMailer(cfg), slog.Default())

	visits := site.NewVisits(site.Deps{
		Evaluator:   assessment.NewClient(evaluator, cfg.Placement.MinLength, slog.Default()),
		Registrants: repo,
		Courses:     loader.Courses(),
		Directory:   directory,
		Auth:        backend.authenticator,
		Notifier:    notifier,
		Logger:      slog.Default(),
	}, cfg.Visits.IdleTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanup.NewCleaner(visits, cfg.Visits.SweepInterval).Start(ctx)

	server := api.NewServer(cfg.Server, api.Deps{
		Visits:    visits,
		Content:   loader,
		Auth:      backend.authenticator,
		Directory: directory,
		Health:    registry,
	})
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		// placement evaluations can take as long as the evaluator timeout
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	slog.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("cercle stopped")
	return nil
}
