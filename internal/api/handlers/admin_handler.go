package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	middleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Stats returns the cross-user dashboard and logs the access.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())

	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.admin.LogActivity(r.Context(), session.Username, "Dashboard Access", "viewed platform statistics"); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.admin.Logs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []models.AdminLogEntry{}
	}
	respondJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())

	if err := h.admin.ClearLogs(r.Context(), session.Username); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ResetUser wipes one user's journal and quote index.
func (h *AdminHandler) ResetUser(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())
	username := chi.URLParam(r, "username")

	err := h.admin.ResetUser(r.Context(), session.Username, username)
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("user %q not found", username))
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset", "username": username})
}

// Export streams the platform snapshot as a JSON download.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())

	bundle, err := h.admin.Export(r.Context(), session.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("dilbot_export_%s.json", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	respondJSON(w, http.StatusOK, bundle)
}
