package config

import "time"

const (
	// FreeMessageLimit is the monthly message allowance for free users.
	FreeMessageLimit = 10

	// PremiumMessageLimit is the monthly message allowance for premium users.
	PremiumMessageLimit = 1000

	// GuestMessageLimit is the total allowance for an anonymous guest
	// session. Intentionally smaller than any identified-user limit.
	GuestMessageLimit = 3

	// GuestSessionTTL bounds entries in the short-lived in-process guest
	// counter. Shorter than the quota window, which is why the cache
	// store below exists at all.
	GuestSessionTTL = 2 * time.Hour

	// GuestCacheTTL bounds entries in the shared cache store so stale
	// guest identifiers self-expire.
	GuestCacheTTL = 24 * time.Hour

	// TitlePrefixLength is how much of the first prompt seeds a new
	// conversation's title.
	TitlePrefixLength = 50

	// MaxMessageLength caps a single prompt. Generous; the provider's
	// context window is the real ceiling.
	MaxMessageLength = 8000

	// GenerateTimeout bounds a single generation call end to end.
	GenerateTimeout = 30 * time.Second
)

// MessageLimit returns the monthly allowance for a tier.
func MessageLimit(tier string) int {
	if tier == "premium" {
		return PremiumMessageLimit
	}
	return FreeMessageLimit
}
