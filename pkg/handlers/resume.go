package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// ResumeHandler handles resume download tracking.
type ResumeHandler struct {
	resumeService services.ResumeService
	trackLimiter  *ratelimit.Limiter
	logger        *zap.Logger
}

// NewResumeHandler creates a new resume handler.
func NewResumeHandler(resumeService services.ResumeService, trackLimiter *ratelimit.Limiter, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService, trackLimiter: trackLimiter, logger: logger}
}

// RegisterRoutes registers the resume handler's routes on the given mux.
func (h *ResumeHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/resume/track", h.Track)
	mux.HandleFunc("GET /api/admin/resume-downloads", mw.RequireAdmin(h.List))
}

// Track handles POST /api/resume/track.
func (h *ResumeHandler) Track(w http.ResponseWriter, r *http.Request) {
	if !CheckRateLimit(w, r, h.trackLimiter, h.logger) {
		return
	}

	var input services.ResumeDownloadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	ip := ratelimit.ClientIP(r)
	input.IPAddress = &ip

	dl, err := h.resumeService.Track(r.Context(), input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("resume download tracked", zap.String("domain", dl.Domain))
	if err := WriteJSON(w, http.StatusCreated, map[string]string{"message": "Download tracked"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/admin/resume-downloads with stats and recent rows.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	stats, err := h.resumeService.Stats(r.Context())
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}
	downloads, err := h.resumeService.List(r.Context(), 100)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"stats":     stats,
		"downloads": downloads,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
