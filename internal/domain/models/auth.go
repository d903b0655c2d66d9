package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the auth provider.
// The subject claim is the user id all other entities key on.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
