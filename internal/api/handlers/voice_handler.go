package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	middleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type VoiceHandler struct {
	transcriber core.Transcriber
	speaker     core.Speaker
	chat        *services.ChatService
	archive     core.ObjectClient
}

// NewVoiceHandler wires the optional voice features. Either capability
// may be nil; the matching endpoint then reports itself unavailable.
func NewVoiceHandler(tr core.Transcriber, sp core.Speaker, chat *services.ChatService, archive core.ObjectClient) *VoiceHandler {
	return &VoiceHandler{transcriber: tr, speaker: sp, chat: chat, archive: archive}
}

// Transcribe converts an uploaded voice message to text and runs it
// through the normal chat pipeline.
func (h *VoiceHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		respondError(w, http.StatusNotImplemented, "voice transcription not configured")
		return
	}
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.ParseMultipartForm(25 << 20)

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid audio upload")
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("%v: %v", core.ErrTranscription, err))
		return
	}

	result, err := h.chat.Respond(r.Context(), session.Username, text, r.FormValue("category"), r.FormValue("language"))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := chatResponse{ChatResult: result}
	if result.Crisis {
		resp.CrisisMessage = crisisMessage
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transcript": text,
		"chat":       resp,
	})
}

type speakRequest struct {
	Text string `json:"text"`
}

// Speak synthesizes audio for a piece of text and streams it back.
func (h *VoiceHandler) Speak(w http.ResponseWriter, r *http.Request) {
	if h.speaker == nil {
		respondError(w, http.StatusNotImplemented, "speech synthesis not configured")
		return
	}
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respondError(w, http.StatusBadRequest, "text required")
		return
	}

	audio, err := h.speaker.Synthesize(r.Context(), req.Text)
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("synthesize: %v", err))
		return
	}

	if h.archive != nil {
		key := fmt.Sprintf("audio/%s/%d.mp3", session.Username, time.Now().UnixNano())
		if _, err := h.archive.UploadFile(r.Context(), key, audio, "audio/mpeg"); err != nil {
			log.Printf("audio archive failed for %s: %v", key, err)
		}
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
