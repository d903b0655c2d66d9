package models

import (
	"time"
)

// User tiers
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// User carries the identity fields the chat core needs: tier resolution and
// the quota counters. Account management (registration, password, avatar)
// lives outside this service.
//
// TotalMessages is lifetime and monotonic. MonthlyMessages accumulates over
// the billing period and is reset by an external job, never by this service.
type User struct {
	ID                string     `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	DisplayName       string     `json:"display_name" db:"display_name"`
	IsPremium         bool       `json:"is_premium" db:"is_premium"`
	PremiumExpiresAt  *time.Time `json:"premium_expires_at,omitempty" db:"premium_expires_at"`
	TotalMessages     int        `json:"total_messages" db:"total_messages"`
	MonthlyMessages   int        `json:"monthly_messages" db:"monthly_messages"`
	LastActivityAt    *time.Time `json:"last_activity_at,omitempty" db:"last_activity_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// Tier returns the effective tier, treating an expired premium
// subscription as free.
func (u *User) Tier() string {
	if u.IsPremium && (u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(time.Now())) {
		return TierPremium
	}
	return TierFree
}
