package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"glow/internal/domain"
	"glow/internal/domain/repositories"
)

// RedisStore is the long-lived shared guest counter. Every write carries a
// TTL so abandoned guest identifiers expire on their own. Unreachable
// Redis surfaces as domain.ErrUnavailable: a hard failure for the request,
// never silently treated as a zero count.
type RedisStore struct {
	client    goredis.Cmdable
	keyPrefix string
}

var _ repositories.GuestCounterStore = (*RedisStore)(nil)

// RedisOption configures RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the Redis key prefix (default "glow:guest:").
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.keyPrefix = prefix }
}

// NewRedisStore creates a Redis-backed guest counter store.
// The client must be a connected *goredis.Client or *goredis.ClusterClient.
func NewRedisStore(client goredis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: "glow:guest:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(guestID string) string {
	return s.keyPrefix + guestID
}

// Get returns the stored count; a missing or expired key is a miss.
func (s *RedisStore) Get(ctx context.Context, guestID string) (int, bool, error) {
	count, err := s.client.Get(ctx, s.key(guestID)).Int()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: read guest counter: %v", domain.ErrUnavailable, err)
	}
	return count, true, nil
}

// Set writes the count with the given TTL.
func (s *RedisStore) Set(ctx context.Context, guestID string, count int, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(guestID), count, ttl).Err(); err != nil {
		return fmt.Errorf("%w: write guest counter: %v", domain.ErrUnavailable, err)
	}
	return nil
}
