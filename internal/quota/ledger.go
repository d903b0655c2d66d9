// Package quota implements the ledger that gates and records message
// consumption for identified users and anonymous guests.
//
// Identified counters live on the user row and are monotonic per billing
// period. Guest counters are dual-backed: a short-lived in-process session
// store and a longer-lived shared cache. The session store's lifetime is
// shorter than the quota window the product enforces, so reads merge both
// stores with max and writes go to both.
package quota

import (
	"context"
	"log/slog"

	"glow/internal/config"
	"glow/internal/domain/repositories"
	"glow/internal/domain/services"
)

// Ledger implements services.QuotaLedger.
type Ledger struct {
	users   repositories.UserRepository
	session repositories.GuestCounterStore
	cache   repositories.GuestCounterStore
	logger  *slog.Logger
}

var _ services.QuotaLedger = (*Ledger)(nil)

// NewLedger creates a quota ledger. session is the short-lived primary
// guest store, cache the long-lived secondary.
func NewLedger(
	users repositories.UserRepository,
	session repositories.GuestCounterStore,
	cache repositories.GuestCounterStore,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		users:   users,
		session: session,
		cache:   cache,
		logger:  logger,
	}
}

// CheckIdentified reports whether the user is under their tier limit.
// Tier is read, never mutated, by this check. Limit reached is a normal
// false result, not an error.
func (l *Ledger) CheckIdentified(ctx context.Context, userID string) (bool, int, error) {
	user, err := l.users.GetUser(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	limit := config.MessageLimit(user.Tier())
	return user.MonthlyMessages < limit, limit, nil
}

// DebitIdentified records one consumed message. The caller must have
// checked first; check-then-debit is serialized per request by the
// orchestrator, not here.
func (l *Ledger) DebitIdentified(ctx context.Context, userID string) error {
	return l.users.IncrementUsage(ctx, userID)
}

// CheckGuest returns the guest's remaining messages, floored at 0.
func (l *Ledger) CheckGuest(ctx context.Context, guestID string) (int, error) {
	count, err := l.effectiveGuestCount(ctx, guestID)
	if err != nil {
		return 0, err
	}

	remaining := config.GuestMessageLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// DebitGuest writes the incremented count to both backing stores and
// returns the remaining allowance after the debit. The cache write
// carries a TTL so stale guest identifiers self-expire.
func (l *Ledger) DebitGuest(ctx context.Context, guestID string) (int, error) {
	count, err := l.effectiveGuestCount(ctx, guestID)
	if err != nil {
		return 0, err
	}
	count++

	if err := l.session.Set(ctx, guestID, count, config.GuestSessionTTL); err != nil {
		return 0, err
	}
	if err := l.cache.Set(ctx, guestID, count, config.GuestCacheTTL); err != nil {
		return 0, err
	}

	l.logger.Debug("guest quota debited", "guest_id", guestID, "count", count)

	remaining := config.GuestMessageLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// effectiveGuestCount merges both stores. A miss in the session store
// falls back to the cache before concluding the count is zero; when both
// hold a value the fresher nonzero one wins via max. This is what makes a
// cleared session (browser refresh, process restart) not reset the quota.
func (l *Ledger) effectiveGuestCount(ctx context.Context, guestID string) (int, error) {
	sessionCount, sessionOK, err := l.session.Get(ctx, guestID)
	if err != nil {
		return 0, err
	}

	cacheCount, cacheOK, err := l.cache.Get(ctx, guestID)
	if err != nil {
		return 0, err
	}

	switch {
	case sessionOK && cacheOK:
		return max(sessionCount, cacheCount), nil
	case sessionOK:
		return sessionCount, nil
	case cacheOK:
		return cacheCount, nil
	default:
		return 0, nil
	}
}
