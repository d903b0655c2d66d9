package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"glow/internal/domain/services"
	"glow/internal/httputil"
)

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(chatService services.ChatService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ListConversations retrieves the caller's conversations
// GET /api/conversations
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	convs, err := h.chatService.ListConversations(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, convs)
}

// GetConversation retrieves a single conversation with its turns
// GET /api/conversations/{id}
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	conv, err := h.chatService.GetConversation(r.Context(), conversationID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a conversation and its turns
// DELETE /api/conversations/{id}
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	if err := h.chatService.DeleteConversation(r.Context(), conversationID, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts and parses the {id} path segment. Writes a 400 response
// and returns ok=false when it is missing or not numeric.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "conversation id must be a positive integer")
		return 0, false
	}
	return id, true
}
