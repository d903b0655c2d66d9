package handler

import (
	"log/slog"
	"net/http"

	"glow/internal/domain/services"
	"glow/internal/httputil"
)

// ChatHandler handles chat HTTP requests.
// Handlers only talk to services, never repositories.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// SendMessage submits one turn for an identified user
// POST /api/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID

	result, err := h.chatService.SendMessage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// SendGuestMessage submits one turn for an anonymous caller
// POST /api/guest/messages
func (h *ChatHandler) SendGuestMessage(w http.ResponseWriter, r *http.Request) {
	var req services.SendGuestMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chatService.SendGuestMessage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
