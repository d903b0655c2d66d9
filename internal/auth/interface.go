package auth

import "glow/internal/domain/models"

// TokenVerifier defines the interface for access-token verification.
// The middleware stays agnostic to how tokens are actually checked.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed
	// claims. Returns an error if the token is invalid, expired, or has
	// an invalid signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
