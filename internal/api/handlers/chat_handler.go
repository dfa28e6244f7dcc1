package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	middleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/services"
)

// crisisMessage is shown verbatim whenever a message trips the crisis
// screen. The normal pipeline still runs; this rides alongside.
const crisisMessage = "Crisis detected! Please reach out to a mental health professional immediately. " +
	"You are not alone. Consider contacting a helpline like the National Suicide Prevention Lifeline " +
	"(988 in the US) or a local emergency service."

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	Language string `json:"language,omitempty"`
}

type chatResponse struct {
	*services.ChatResult
	CrisisMessage string `json:"crisis_message,omitempty"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	result, err := h.chat.Respond(r.Context(), session.Username, req.Message, req.Category, req.Language)
	switch {
	case errors.Is(err, core.ErrClassification), errors.Is(err, core.ErrGeneration):
		respondError(w, http.StatusBadGateway, err.Error())
		return
	case errors.Is(err, core.ErrStorage):
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := chatResponse{ChatResult: result}
	if result.Crisis {
		resp.CrisisMessage = crisisMessage
	}
	respondJSON(w, http.StatusOK, resp)
}
