package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// FeatureFlagsHandler handles the admin feature flag endpoints.
type FeatureFlagsHandler struct {
	featureService services.FeatureService
	auditor        *audit.Auditor
	logger         *zap.Logger
}

// NewFeatureFlagsHandler creates a new feature flags handler.
func NewFeatureFlagsHandler(featureService services.FeatureService, auditor *audit.Auditor, logger *zap.Logger) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{featureService: featureService, auditor: auditor, logger: logger}
}

// RegisterRoutes registers the feature flags handler's routes on the given mux.
func (h *FeatureFlagsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/admin/feature-flags", mw.RequireAdmin(h.Get))
	mux.HandleFunc("POST /api/admin/feature-flags", mw.RequireAdmin(h.Set))
}

// Get handles GET /api/admin/feature-flags.
func (h *FeatureFlagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	flags, err := h.featureService.Flags(r.Context())
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"flags": flags}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Set handles POST /api/admin/feature-flags. The response reflects the
// persisted value; the rebuild fires in the background.
func (h *FeatureFlagsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Flag    string `json:"flag"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.featureService.SetFlag(r.Context(), req.Flag, req.Enabled); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	claims, _ := auth.GetClaims(r.Context())
	h.auditor.FlagToggled(req.Flag, req.Enabled, claims.Identity())
	h.logger.Info("feature flag updated", zap.String("flag", req.Flag), zap.Bool("enabled", req.Enabled))
	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"flag":    req.Flag,
		"enabled": req.Enabled,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
