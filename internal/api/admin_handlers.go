package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/frenchcercle/cercle/internal/admin"
)

// --- Bearer-authenticated directory routes ---

func (s *Server) handleListRegistrants(w http.ResponseWriter, r *http.Request) {
	s.directory.Load(r.Context())
	registrants := s.directory.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"registrants": registrants,
		"total":       len(registrants),
		"placeholder": s.directory.IsPlaceholder(),
	})
}

func (s *Server) handleExportRegistrants(w http.ResponseWriter, r *http.Request) {
	s.directory.Load(r.Context())

	var buf bytes.Buffer
	if err := admin.WriteCSV(&buf, s.directory.List()); err != nil {
		slog.Error("failed to export registrants", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to export registrants")
		return
	}

	if session := SessionFromContext(r.Context()); session != nil {
		slog.Info("registrants exported", "identifier", session.Identifier)
	}
	s.writeCSV(w, buf.Bytes())
}
