package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

// AssistantHandlers serves the chat assistant endpoint.
type AssistantHandlers struct {
	service inbound.AssistantService
	logger  *zap.Logger
}

// NewAssistantHandlers creates the assistant handler set.
func NewAssistantHandlers(service inbound.AssistantService, logger *zap.Logger) *AssistantHandlers {
	return &AssistantHandlers{service: service, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/assistant/chat.
func (h *AssistantHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeBadRequest(w, h.logger, "message is required")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	reply, err := h.service.Chat(r.Context(), inbound.ChatCommand{
		UserID:    userID,
		Utterance: req.Message,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, reply)
}
