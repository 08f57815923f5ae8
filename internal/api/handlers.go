package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/navigation"
	"github.com/frenchcercle/cercle/internal/registration"
)

// Response helpers

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, &apiError{Code: code, Message: message})
}

func writeError(w http.ResponseWriter, status int, e *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: e}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps errors of the site operations to responses
func respondDomainError(w http.ResponseWriter, err error) {
	var verr *registration.ValidationError
	var rej *auth.RejectionError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, &apiError{
			Code:    "validation_error",
			Message: "some fields are invalid",
			Fields:  verr.Fields,
		})
	case errors.As(err, &rej):
		respondError(w, http.StatusUnauthorized, "rejected", rej.Reason)
	case errors.Is(err, admin.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "admin session required")
	case errors.Is(err, registration.ErrBusy), errors.Is(err, admin.ErrBusy):
		respondError(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, registration.ErrPersistence):
		respondError(w, http.StatusServiceUnavailable, "persistence_error", registration.RetryMessage)
	case errors.Is(err, navigation.ErrUnknownView):
		respondError(w, http.StatusBadRequest, "unknown_view", err.Error())
	default:
		slog.Error("unhandled request error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.health.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	ready := true
	for name, err := range results {
		if err != nil {
			slog.Warn("dependency not ready", "dependency", name, "error", err)
			checks[name] = "unavailable"
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}

// Content handlers

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.content.Get())
}
