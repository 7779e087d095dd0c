package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
)

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler handles admin session endpoints.
type AuthHandler struct {
	authService auth.AuthService
	auditor     *audit.Auditor
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, auditor *audit.Auditor, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, auditor: auditor, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", mw.RequireAdmin(h.Me))
}

// Login handles POST /api/auth/login. Wrong email and wrong password get
// the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claims, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.auditor.LoginAttempt(req.Email, ratelimit.ClientIP(r), false)
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	token, err := h.authService.IssueToken(claims)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	session, _ := h.authService.Store().Get(r, auth.SessionName)
	session.Values[auth.SessionKeyToken] = token
	if err := session.Save(r, w); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	h.auditor.LoginAttempt(claims.Email, ratelimit.ClientIP(r), true)
	h.logger.Info("admin login", zap.String("email", claims.Email))
	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"email": claims.Email,
			"name":  claims.Name,
			"role":  claims.Role,
		},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.authService.Store().Get(r, auth.SessionName)
	session.Options.MaxAge = -1
	delete(session.Values, auth.SessionKeyToken)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Me handles GET /api/auth/me for the dashboard's session probe.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Admin access required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"email": claims.Email,
			"name":  claims.Name,
			"role":  claims.Role,
		},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
