package handlers

import (
	"net/http"

	middleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/models"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type JournalHandler struct {
	journal *services.JournalService
}

func NewJournalHandler(journal *services.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.journal.Load(r.Context(), session.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.journal.UserStats(r.Context(), session.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
