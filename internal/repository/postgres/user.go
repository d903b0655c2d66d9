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

// UserRepository implements repositories.UserRepository using PostgreSQL
type UserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &UserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetUser retrieves a user by id, including quota counters
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, display_name, is_premium, premium_expires_at,
		       total_messages, monthly_messages, last_activity_at, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.IsPremium,
		&user.PremiumExpiresAt,
		&user.TotalMessages,
		&user.MonthlyMessages,
		&user.LastActivityAt,
		&user.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// IncrementUsage bumps the lifetime and period counters by one and stamps
// last_activity_at. The period counter is reset by an external job on the
// billing boundary, never here.
func (r *UserRepository) IncrementUsage(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			total_messages = total_messages + 1,
			monthly_messages = monthly_messages + 1,
			last_activity_at = $2
		WHERE id = $1
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}
