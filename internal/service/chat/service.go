// Package chat implements the turn orchestrator: it validates a request,
// checks quota, calls the generation gateway, and only on gateway success
// commits the turn pair to durable history and debits the ledger.
//
// The generation call happens before any write. A failing external call
// leaves the system exactly as it was: no orphan conversations, no
// half-written turns, no consumed quota.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"glow/internal/config"
	"glow/internal/domain"
	"glow/internal/domain/models"
	"glow/internal/domain/repositories"
	"glow/internal/domain/services"
)

// Service implements services.ChatService.
type Service struct {
	conversations repositories.ConversationRepository
	ledger        services.QuotaLedger
	generator     services.ResponseGenerator
	tx            repositories.TransactionManager
	logger        *slog.Logger
}

// NewService creates the turn orchestrator.
func NewService(
	conversations repositories.ConversationRepository,
	ledger services.QuotaLedger,
	generator services.ResponseGenerator,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) services.ChatService {
	return &Service{
		conversations: conversations,
		ledger:        ledger,
		generator:     generator,
		tx:            tx,
		logger:        logger,
	}
}

// SendMessage handles one identified-user turn.
//
// Ordering is the contract: validate, quota check, history load, gateway
// call, then commit + debit. Every failure before the commit leaves zero
// mutation. The commit itself (conversation creation for new threads plus
// both turn appends) runs in a single transaction.
func (s *Service) SendMessage(ctx context.Context, req *services.SendMessageRequest) (*services.SendMessageResult, error) {
	if err := s.validateSendMessage(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	allowed, limit, err := s.ledger.CheckIdentified(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &domain.QuotaExceededError{Limit: limit}
	}

	// For an existing thread, load it (ownership-scoped) and its history.
	// For a new thread, only compute the candidate title; the conversation
	// itself is created after the gateway call succeeds, never before.
	var conv *models.Conversation
	var history []models.Turn
	var title string

	if req.ConversationID != nil {
		conv, err = s.conversations.GetConversation(ctx, *req.ConversationID, req.UserID)
		if err != nil {
			return nil, err
		}
		history, err = s.conversations.History(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
	} else {
		title = deriveTitle(req.Message)
	}

	text, err := s.generator.Generate(ctx, req.Message, toPromptMessages(history))
	if err != nil {
		s.logger.Error("generation failed",
			"user_id", req.UserID,
			"conversation_id", req.ConversationID,
			"error", err,
		)
		return nil, err
	}

	userTurn := &models.Turn{Role: models.RoleUser, Content: req.Message}
	assistantTurn := &models.Turn{Role: models.RoleAssistant, Content: text}

	err = s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if conv == nil {
			conv = &models.Conversation{
				UserID: req.UserID,
				Title:  title,
				Status: models.ConversationActive,
			}
			if err := s.conversations.CreateConversation(txCtx, conv); err != nil {
				return err
			}
		}

		userTurn.ConversationID = conv.ID
		if err := s.conversations.AppendTurn(txCtx, userTurn); err != nil {
			return err
		}

		assistantTurn.ConversationID = conv.ID
		return s.conversations.AppendTurn(txCtx, assistantTurn)
	})
	if err != nil {
		return nil, fmt.Errorf("commit turn pair: %w", err)
	}

	if err := s.ledger.DebitIdentified(ctx, req.UserID); err != nil {
		s.logger.Error("quota debit failed after commit",
			"user_id", req.UserID,
			"conversation_id", conv.ID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("turn committed",
		"user_id", req.UserID,
		"conversation_id", conv.ID,
		"user_turn_id", userTurn.ID,
		"assistant_turn_id", assistantTurn.ID,
	)

	return &services.SendMessageResult{
		ConversationID: conv.ID,
		Response:       text,
		UserTurn:       userTurn,
		AssistantTurn:  assistantTurn,
	}, nil
}

// SendGuestMessage handles one anonymous turn. Guests get no persistence:
// no history is sent to the provider and no entities are created. The only
// mutation is the dual-store counter debit, which happens last.
func (s *Service) SendGuestMessage(ctx context.Context, req *services.SendGuestMessageRequest) (*services.SendGuestMessageResult, error) {
	if err := s.validateGuestMessage(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	guestID := req.GuestID
	if guestID == "" {
		guestID = "guest_" + uuid.NewString()
	}

	remaining, err := s.ledger.CheckGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, &domain.QuotaExceededError{Limit: config.GuestMessageLimit}
	}

	text, err := s.generator.Generate(ctx, req.Message, nil)
	if err != nil {
		s.logger.Error("guest generation failed", "guest_id", guestID, "error", err)
		return nil, err
	}

	remaining, err = s.ledger.DebitGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	return &services.SendGuestMessageResult{
		GuestID:   guestID,
		Response:  text,
		Remaining: remaining,
	}, nil
}

// ListConversations returns the caller's conversations, newest first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.conversations.ListConversations(ctx, userID)
}

// GetConversation returns one conversation with its full turn history.
func (s *Service) GetConversation(ctx context.Context, conversationID int64, userID string) (*models.Conversation, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	turns, err := s.conversations.History(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	conv.Turns = turns

	return conv, nil
}

// DeleteConversation removes a conversation and its turns atomically.
func (s *Service) DeleteConversation(ctx context.Context, conversationID int64, userID string) error {
	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		return s.conversations.DeleteConversation(txCtx, conversationID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
	return nil
}

// Validation methods

func (s *Service) validateSendMessage(req *services.SendMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
	)
}

func (s *Service) validateGuestMessage(req *services.SendGuestMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
	)
}

// deriveTitle builds a new conversation's title from a bounded prefix of
// the first prompt.
func deriveTitle(message string) string {
	title := strings.TrimSpace(message)
	runes := []rune(title)
	if len(runes) > config.TitlePrefixLength {
		return string(runes[:config.TitlePrefixLength]) + "..."
	}
	return title
}

// toPromptMessages converts committed turns into the ordered history the
// gateway expects, preserving creation order exactly.
func toPromptMessages(turns []models.Turn) []services.PromptMessage {
	if len(turns) == 0 {
		return nil
	}
	msgs := make([]services.PromptMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, services.PromptMessage{Role: t.Role, Content: t.Content})
	}
	return msgs
}
