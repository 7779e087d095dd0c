// Package auth provides cookie-session authentication for the admin
// dashboard and the caller model shared by the client-feedback endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing session claims.
	ClaimsKey contextKey = "claims"
)

// SessionClaims is the JWT payload carried inside the admin session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"` // 'user' or 'admin'
}

// IsAdmin reports whether the session belongs to an admin.
func (c *SessionClaims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

// Identity returns the display identity used for moderation stamps:
// email when present, then name, then "admin".
func (c *SessionClaims) Identity() string {
	switch {
	case c == nil:
		return ""
	case c.Email != "":
		return c.Email
	case c.Name != "":
		return c.Name
	default:
		return "admin"
	}
}

// GetClaims retrieves session claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*SessionClaims)
	return claims, ok
}

// SetClaims stores session claims in the context.
func SetClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
