package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// AnalyticsHandler handles visitor tracking and the stats dashboard.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	trackLimiter     *ratelimit.Limiter
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, trackLimiter *ratelimit.Limiter, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		trackLimiter:     trackLimiter,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/analytics/track", h.Track)
	mux.HandleFunc("GET /api/analytics/stats", mw.RequireAdmin(h.Stats))
	mux.HandleFunc("POST /api/analytics/backfill-geo", mw.RequireAdmin(h.BackfillGeo))
}

// Track handles POST /api/analytics/track. Tracking must never hurt the
// page: storage failures come back as success:false with a 200, and only
// the rate limiter short-circuits harder.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	if !CheckRateLimit(w, r, h.trackLimiter, h.logger) {
		return
	}

	var input services.TrackInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": false}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	input.UserAgent = r.UserAgent()
	input.IPAddress = ratelimit.ClientIP(r)

	if err := h.analyticsService.Track(r.Context(), input); err != nil {
		h.logger.Warn("page view tracking failed", zap.Error(err))
		if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": false}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stats handles GET /api/analytics/stats?days=N, admin only.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	stats, err := h.analyticsService.Stats(r.Context(), days)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// BackfillGeo handles POST /api/analytics/backfill-geo, admin only.
func (h *AnalyticsHandler) BackfillGeo(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	updated, err := h.analyticsService.BackfillGeo(r.Context(), limit)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]int{"updated": updated}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
