package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	middleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/quotes"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type QuotesHandler struct {
	chat      *services.ChatService
	extractor *quotes.Extractor
	archive   core.ObjectClient
}

// NewQuotesHandler wires the quote upload path. archive may be nil,
// raw uploads are then not retained.
func NewQuotesHandler(chat *services.ChatService, extractor *quotes.Extractor, archive core.ObjectClient) *QuotesHandler {
	return &QuotesHandler{chat: chat, extractor: extractor, archive: archive}
}

// Upload accepts a quote file, extracts one quote per line and replaces
// the caller's active quote set with the result.
func (h *QuotesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.ParseMultipartForm(10 << 20)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	qs, err := h.extractor.Extract(data, contentType, header.Filename)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("extract quotes: %v", err))
		return
	}

	n, err := h.chat.ReplaceQuotes(r.Context(), session.Username, qs)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if h.archive != nil {
		key := fmt.Sprintf("quotes/%s/%s", session.Username, filepath.Base(header.Filename))
		if _, err := h.archive.UploadFile(r.Context(), key, data, contentType); err != nil {
			log.Printf("archive upload failed for %s: %v", key, err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"quotes_indexed": n,
	})
}

// Categories lists the built-in quote themes and their quotes.
func (h *QuotesHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"default":    quotes.DefaultCategory,
		"names":      quotes.CategoryNames(),
		"categories": quotes.Categories,
	})
}
