package services

import "context"

// QuotaLedger gates and records message consumption.
//
// "Limit reached" is a normal result, never an error: CheckIdentified
// returns false and CheckGuest returns 0 remaining. Only backing-store
// unavailability surfaces as an error (domain.ErrUnavailable).
//
// Check-then-debit is serialized per request by the orchestrator, not
// inside the ledger. Two concurrent requests from the same caller can
// both pass the check before either debits; that bounded overshoot is
// the documented baseline contract.
type QuotaLedger interface {
	// CheckIdentified reports whether the user is under their tier limit.
	CheckIdentified(ctx context.Context, userID string) (allowed bool, limit int, err error)

	// DebitIdentified records one consumed message: total and period
	// counters +1, last_activity_at stamped. Call only after a
	// successful generation.
	DebitIdentified(ctx context.Context, userID string) error

	// CheckGuest returns the guest's remaining messages, floored at 0,
	// reading the dual-backed counter (max of both stores, secondary
	// consulted on a primary miss).
	CheckGuest(ctx context.Context, guestID string) (remaining int, err error)

	// DebitGuest writes the incremented count to both backing stores and
	// returns the remaining messages after the debit.
	DebitGuest(ctx context.Context, guestID string) (remaining int, err error)
}
