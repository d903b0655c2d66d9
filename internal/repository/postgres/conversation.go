package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"glow/internal/domain"
	"glow/internal/domain/models"
	"glow/internal/domain/repositories"
)

// ConversationRepository implements repositories.ConversationRepository
// using PostgreSQL
type ConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &ConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CreateConversation persists a new conversation
func (r *ConversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, status, turn_count, last_turn_at, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NULL, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Conversations)

	now := time.Now()
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		conv.UserID,
		conv.Title,
		conv.Status,
		now,
		now,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	return nil
}

// GetConversation retrieves a conversation scoped to its owner.
// A conversation owned by another user reads as not found.
func (r *ConversationRepository) GetConversation(ctx context.Context, conversationID int64, userID string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, status, turn_count, last_turn_at, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Conversations)

	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, conversationID, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Status,
		&conv.TurnCount,
		&conv.LastTurnAt,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations retrieves all of a user's conversations, most recently
// updated first
func (r *ConversationRepository) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, status, turn_count, last_turn_at, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Title,
			&conv.Status,
			&conv.TurnCount,
			&conv.LastTurnAt,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Return empty slice instead of nil
	if convs == nil {
		convs = []models.Conversation{}
	}

	return convs, nil
}

// DeleteConversation removes a conversation and all of its turns
func (r *ConversationRepository) DeleteConversation(ctx context.Context, conversationID int64, userID string) error {
	executor := GetExecutor(ctx, r.pool)

	// Turns first; the conversation delete below is the ownership gate,
	// so this must run in a transaction (the service wraps it in ExecTx).
	turnsQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE conversation_id = (SELECT id FROM %s WHERE id = $1 AND user_id = $2)
	`, r.tables.Turns, r.tables.Conversations)

	if _, err := executor.Exec(ctx, turnsQuery, conversationID, userID); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}

	convQuery := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 AND user_id = $2
	`, r.tables.Conversations)

	result, err := executor.Exec(ctx, convQuery, conversationID, userID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	return nil
}

// AppendTurn appends a turn and recomputes the owning conversation's
// turn_count and last_turn_at in the same logical operation
func (r *ConversationRepository) AppendTurn(ctx context.Context, turn *models.Turn) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (conversation_id, role, content, edited, edited_at, created_at)
		VALUES ($1, $2, $3, false, NULL, $4)
		RETURNING id, created_at
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		turn.ConversationID,
		turn.Role,
		turn.Content,
		time.Now(),
	).Scan(&turn.ID, &turn.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("conversation %d: %w", turn.ConversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("append turn: %w", err)
	}

	return r.recomputeAggregates(ctx, turn.ConversationID)
}

// RemoveTurn deletes a turn and recomputes the owning conversation's
// aggregates
func (r *ConversationRepository) RemoveTurn(ctx context.Context, turnID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 RETURNING conversation_id
	`, r.tables.Turns)

	var conversationID int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, turnID).Scan(&conversationID); err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("turn %d: %w", turnID, domain.ErrNotFound)
		}
		return fmt.Errorf("remove turn: %w", err)
	}

	return r.recomputeAggregates(ctx, conversationID)
}

// recomputeAggregates derives turn_count and last_turn_at from the actual
// turn rows. Derived fields are never hand-edited anywhere else.
func (r *ConversationRepository) recomputeAggregates(ctx context.Context, conversationID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			turn_count = (SELECT COUNT(*) FROM %s WHERE conversation_id = $1),
			last_turn_at = (SELECT MAX(created_at) FROM %s WHERE conversation_id = $1),
			updated_at = $2
		WHERE id = $1
	`, r.tables.Conversations, r.tables.Turns, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, conversationID, time.Now()); err != nil {
		return fmt.Errorf("recompute conversation aggregates: %w", err)
	}

	return nil
}

// History returns the full ordered replay of a conversation's turns
func (r *ConversationRepository) History(ctx context.Context, conversationID int64) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, edited, edited_at, created_at
		FROM %s
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		err := rows.Scan(
			&turn.ID,
			&turn.ConversationID,
			&turn.Role,
			&turn.Content,
			&turn.Edited,
			&turn.EditedAt,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	if turns == nil {
		turns = []models.Turn{}
	}

	return turns, nil
}
