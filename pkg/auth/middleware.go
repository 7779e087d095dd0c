package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates session validation to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAdmin validates the session cookie and requires the admin role.
// Sets claims in context for downstream handlers. The rejection body is the
// same whether the session is missing, invalid, expired, or non-admin.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authService.ValidateRequest(r)
		if err != nil || !claims.IsAdmin() {
			m.unauthorized(w, "Admin access required")
			return
		}

		next(w, r.WithContext(SetClaims(r.Context(), claims)))
	}
}

// ResolveSession validates the session cookie if one is present and sets
// claims in context without rejecting the request. Used on endpoints that
// accept either an admin session or a project access token.
func (m *Middleware) ResolveSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.authService.ValidateRequest(r); err == nil {
			r = r.WithContext(SetClaims(r.Context(), claims))
		}
		next(w, r)
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
