package services

import (
	"context"

	"glow/internal/domain/models"
)

// PromptMessage is one entry of the ordered history handed to the
// generation provider.
type PromptMessage struct {
	Role    string
	Content string
}

// ResponseGenerator is the contract the orchestrator requires from the
// external text-generation provider. It is a pure request/response
// operation: the provider holds no state between calls, so the full
// conversational context is supplied on every invocation.
//
// Implementations must bound the call with a timeout and report failures
// as the classified gateway errors so the orchestrator's taxonomy stays
// precise. An empty generated text is a successful call, not an error.
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string, history []PromptMessage) (string, error)
}

// ChatService orchestrates a single chat turn: quota check, generation,
// and the conditional commit to durable history.
type ChatService interface {
	// SendMessage handles a turn from an identified user. The generation
	// call happens before any write: a failing call leaves no orphan
	// conversation, no half-written turns, and no consumed quota.
	SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResult, error)

	// SendGuestMessage handles a turn from an anonymous caller. Guest
	// turns are never persisted, so no history is sent to the provider.
	SendGuestMessage(ctx context.Context, req *SendGuestMessageRequest) (*SendGuestMessageResult, error)

	// ListConversations returns the caller's conversations, newest first.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)

	// GetConversation returns one conversation with its full turn history.
	GetConversation(ctx context.Context, conversationID int64, userID string) (*models.Conversation, error)

	// DeleteConversation removes a conversation and its turns.
	DeleteConversation(ctx context.Context, conversationID int64, userID string) error
}

// SendMessageRequest is the DTO for an identified-user turn
type SendMessageRequest struct {
	UserID         string `json:"-"` // set by handler from auth context
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

// SendMessageResult is the DTO returned on a successfully committed turn
type SendMessageResult struct {
	ConversationID int64         `json:"conversation_id"`
	Response       string        `json:"response"`
	UserTurn       *models.Turn  `json:"user_turn"`
	AssistantTurn  *models.Turn  `json:"assistant_turn"`
}

// SendGuestMessageRequest is the DTO for an anonymous turn
type SendGuestMessageRequest struct {
	GuestID string `json:"session_id,omitempty"` // minted when absent
	Message string `json:"message"`
}

// SendGuestMessageResult is the DTO returned for a guest turn
type SendGuestMessageResult struct {
	GuestID   string `json:"session_id"`
	Response  string `json:"response"`
	Remaining int    `json:"remaining_messages"`
}
