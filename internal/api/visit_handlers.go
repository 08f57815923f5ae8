package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/models"
	"github.com/frenchcercle/cercle/internal/registration"
)

type navigateRequest struct {
	View models.ViewState `json:"view"`
}

type scrollRequest struct {
	Anchor string `json:"anchor"`
}

type textRequest struct {
	Text string `json:"text"`
}

type modeRequest struct {
	Mode models.Mode `json:"mode"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type registerResponse struct {
	Registrant *models.Registrant `json:"registrant"`
	Page       any                `json:"page"`
}

func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	visit := s.visits.Create(r.Context(), bearerToken(r))
	slog.Debug("visit created", "visit_id", visit.ID())
	respondJSON(w, http.StatusCreated, visit.Page())
}

func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, visitFromContext(r.Context()).Page())
}

func (s *Server) handleDeleteVisit(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	if err := s.visits.Delete(r.Context(), visit.ID()); err != nil {
		respondError(w, http.StatusNotFound, "not_found", "visit not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "visit deleted",
	})
}

// Navigation

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	visit := visitFromContext(r.Context())
	if err := visit.Navigate(req.View); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handleToggleMenu(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	visit.ToggleMenu()
	respondJSON(w, http.StatusOK, visit.Page())
}

// Unknown anchors still land on HOME; the page simply carries no scroll.
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Anchor == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "anchor is required")
		return
	}
	visit := visitFromContext(r.Context())
	visit.ScrollTo(req.Anchor)
	respondJSON(w, http.StatusOK, visit.Page())
}

// Placement test

func (s *Server) handlePlacementText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	visit := visitFromContext(r.Context())
	if !visit.SetPlacementText(req.Text) {
		respondError(w, http.StatusConflict, "placement_locked", "the text cannot change while evaluating or after a result")
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handlePlacementSubmit(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	if !visit.SubmitPlacement(r.Context()) {
		respondError(w, http.StatusConflict, "not_submittable", "the text is too short or an evaluation already exists")
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handlePlacementReset(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	if !visit.ResetPlacement() {
		respondError(w, http.StatusConflict, "no_result", "there is no result to reset")
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handlePlacementConfirm(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	if !visit.ConfirmPlacement() {
		respondError(w, http.StatusConflict, "no_result", "there is no result to confirm")
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

// Registration

func (s *Server) handleRegistrationMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	visit := visitFromContext(r.Context())
	if err := visit.SetMode(req.Mode); err != nil {
		respondError(w, http.StatusBadRequest, "unknown_mode", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var fields registration.Fields
	if !decodeBody(w, r, &fields) {
		return
	}
	visit := visitFromContext(r.Context())
	created, err := visit.Register(r.Context(), fields)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, registerResponse{
		Registrant: created,
		Page:       visit.Page(),
	})
}

// Admin

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	visit := visitFromContext(r.Context())
	if err := visit.Login(r.Context(), req.Identifier, req.Secret); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token": visit.AdminToken(),
		"page":  visit.Page(),
	})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	visit.Logout(r.Context())
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handleAdminDirectory(w http.ResponseWriter, r *http.Request) {
	visit := visitFromContext(r.Context())
	if err := visit.ReloadDirectory(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visit.Page())
}

func (s *Server) handleVisitExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := visitFromContext(r.Context()).Export(&buf); err != nil {
		respondDomainError(w, err)
		return
	}
	s.writeCSV(w, buf.Bytes())
}

func (s *Server) writeCSV(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", admin.ExportFilename(s.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Debug("failed to write csv export", "error", err)
	}
}
