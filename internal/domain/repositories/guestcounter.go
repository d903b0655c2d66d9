package repositories

import (
	"context"
	"time"
)

// GuestCounterStore is a key-value counter for anonymous callers.
//
// Two implementations back the guest quota: a short-lived in-process
// session store and a longer-lived shared cache (Redis, ~24h TTL). The
// ledger writes to both and merges reads with max, so clearing the
// short-lived store does not reset a guest's consumption.
type GuestCounterStore interface {
	// Get returns the stored count for a guest id. ok is false on a miss
	// (including expiry), which is distinct from a stored zero.
	Get(ctx context.Context, guestID string) (count int, ok bool, err error)

	// Set writes the count with the given TTL, replacing any prior value.
	Set(ctx context.Context, guestID string, count int, ttl time.Duration) error
}
