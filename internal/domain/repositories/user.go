package repositories

import (
	"context"

	"glow/internal/domain/models"
)

// UserRepository is the collaborator interface for account storage.
// The chat core only reads tier/counter fields and bumps usage;
// account CRUD belongs to another service.
type UserRepository interface {
	// GetUser retrieves a user by id, including quota counters.
	// Returns domain.ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// IncrementUsage bumps total_messages and monthly_messages by one and
	// stamps last_activity_at. Callers must have passed a quota check
	// first; this method does not re-check.
	IncrementUsage(ctx context.Context, userID string) error
}
