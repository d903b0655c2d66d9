package repositories

import (
	"context"

	"glow/internal/domain/models"
)

// ConversationRepository defines data access for conversations and their turns.
//
// Ownership checks happen at the query level: every user-scoped method takes
// the caller's user id and treats a conversation owned by someone else exactly
// like a missing one (domain.ErrNotFound), so existence never leaks.
type ConversationRepository interface {
	// CreateConversation persists a new conversation and fills in its
	// generated id and timestamps. Only called after a successful
	// generation, never speculatively.
	CreateConversation(ctx context.Context, conv *models.Conversation) error

	// GetConversation retrieves a conversation scoped to its owner.
	// Returns domain.ErrNotFound if missing or owned by another user.
	GetConversation(ctx context.Context, conversationID int64, userID string) (*models.Conversation, error)

	// ListConversations retrieves all of a user's conversations, most
	// recently updated first. Returns an empty slice when there are none.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)

	// DeleteConversation removes a conversation and all of its turns.
	// Returns domain.ErrNotFound if missing or owned by another user.
	DeleteConversation(ctx context.Context, conversationID int64, userID string) error

	// AppendTurn appends a turn and recomputes the owning conversation's
	// turn_count and last_turn_at as part of the same logical operation.
	// Fills in the turn's generated id and created_at.
	AppendTurn(ctx context.Context, turn *models.Turn) error

	// RemoveTurn deletes a turn and recomputes the owning conversation's
	// aggregates, mirroring AppendTurn.
	RemoveTurn(ctx context.Context, turnID int64) error

	// History returns the full ordered replay of a conversation's turns,
	// ascending by creation time with ties broken by id.
	History(ctx context.Context, conversationID int64) ([]models.Turn, error)
}
