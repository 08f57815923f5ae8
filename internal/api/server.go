package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/config"
	"github.com/frenchcercle/cercle/internal/content"
	"github.com/frenchcercle/cercle/internal/health"
	"github.com/frenchcercle/cercle/internal/site"
)

// Deps are the collaborators the API serves
type Deps struct {
	Visits    *site.Visits
	Content   *content.Loader
	Auth      auth.Authenticator
	Directory *admin.Directory
	Health    *health.Registry
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	visits         *site.Visits
	content        *content.Loader
	directory      *admin.Directory
	health         *health.Registry
	authMiddleware *AuthMiddleware
	now            func() time.Time
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		config:         cfg,
		visits:         deps.Visits,
		content:        deps.Content,
		directory:      deps.Directory,
		health:         deps.Health,
		authMiddleware: NewAuthMiddleware(deps.Auth),
		now:            time.Now,
	}
	if s.health == nil {
		s.health = health.NewRegistry()
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/content", s.handleGetContent)

			r.Route("/visits", func(r chi.Router) {
				r.Post("/", s.handleCreateVisit)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(s.visitContext)

					r.Get("/", s.handleGetVisit)
					r.Delete("/", s.handleDeleteVisit)
					r.Post("/navigate", s.handleNavigate)
					r.Post("/menu", s.handleToggleMenu)
					r.Post("/scroll", s.handleScroll)

					r.Put("/placement/text", s.handlePlacementText)
					r.Post("/placement/submit", s.handlePlacementSubmit)
					r.Post("/placement/reset", s.handlePlacementReset)
					r.Post("/placement/confirm", s.handlePlacementConfirm)

					r.Put("/registration/mode", s.handleRegistrationMode)
					r.Post("/registration", s.handleRegister)

					r.Post("/admin/login", s.handleAdminLogin)
					r.Post("/admin/logout", s.handleAdminLogout)
					r.Post("/admin/directory", s.handleAdminDirectory)
					r.Get("/admin/export", s.handleVisitExport)
				})
			})

		})

		r.Route("/admin/registrants", func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)
			r.With(middleware.Timeout(60 * time.Second)).Get("/", s.handleListRegistrants)
			r.With(middleware.Timeout(60 * time.Second)).Get("/export", s.handleExportRegistrants)

			// long-lived, outside the request timeout
			r.Get("/stream", s.handleDirectoryStream)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
