package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// SubmitFeedbackRequest is the widget submission payload: project
// credentials plus the feedback fields.
type SubmitFeedbackRequest struct {
	ProjectSlug string `json:"projectSlug"`
	AccessToken string `json:"accessToken"`
	services.FeedbackInput
}

// UnmarshalJSON decodes the numeric fields leniently. Embeds read positions
// and viewport sizes off the DOM, and older widget builds sent them as
// strings.
func (req *SubmitFeedbackRequest) UnmarshalJSON(data []byte) error {
	type plain SubmitFeedbackRequest
	aux := struct {
		*plain
		PositionX      json.RawMessage `json:"positionX"`
		PositionY      json.RawMessage `json:"positionY"`
		ViewportWidth  json.RawMessage `json:"viewportWidth"`
		ViewportHeight json.RawMessage `json:"viewportHeight"`
	}{plain: (*plain)(req)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	req.PositionX = jsonutil.FlexibleIntValue(aux.PositionX)
	req.PositionY = jsonutil.FlexibleIntValue(aux.PositionY)
	req.ViewportWidth = jsonutil.FlexibleIntValue(aux.ViewportWidth)
	req.ViewportHeight = jsonutil.FlexibleIntValue(aux.ViewportHeight)
	return nil
}

// UpdateFeedbackRequest is the admin moderation payload.
type UpdateFeedbackRequest struct {
	ID string `json:"id"`
	services.FeedbackUpdate
}

// ClientFeedbackHandler handles the feedback collection endpoints.
type ClientFeedbackHandler struct {
	feedbackService services.FeedbackService
	exportService   services.ExportService
	submitLimiter   *ratelimit.Limiter
	auditor         *audit.Auditor
	logger          *zap.Logger
}

// NewClientFeedbackHandler creates a new client feedback handler.
func NewClientFeedbackHandler(
	feedbackService services.FeedbackService,
	exportService services.ExportService,
	submitLimiter *ratelimit.Limiter,
	auditor *audit.Auditor,
	logger *zap.Logger,
) *ClientFeedbackHandler {
	return &ClientFeedbackHandler{
		feedbackService: feedbackService,
		exportService:   exportService,
		submitLimiter:   submitLimiter,
		auditor:         auditor,
		logger:          logger,
	}
}

// RegisterRoutes registers the feedback handler's routes on the given mux.
// GET and POST serve both admins and token holders, so they resolve the
// session optionally instead of requiring it.
func (h *ClientFeedbackHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/client-feedback", h.Submit)
	mux.HandleFunc("GET /api/client-feedback", mw.ResolveSession(h.List))
	mux.HandleFunc("PUT /api/client-feedback", mw.RequireAdmin(h.Update))
	mux.HandleFunc("DELETE /api/client-feedback/{id}", mw.RequireAdmin(h.Delete))
	mux.HandleFunc("GET /api/client-feedback/export", mw.RequireAdmin(h.Export))
}

// Submit handles POST /api/client-feedback. The rate limit runs before the
// token gate and both run before any write.
func (h *ClientFeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !CheckRateLimit(w, r, h.submitLimiter, h.logger) {
		return
	}

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.feedbackService.ResolveTokenHolder(r.Context(), req.ProjectSlug, req.AccessToken)
	if err != nil {
		h.auditor.TokenRejected(req.ProjectSlug, ratelimit.ClientIP(r))
		// Deliberately generic: no hint whether the slug, the token or
		// the enabled flag was wrong.
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid project or access token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	ip := ratelimit.ClientIP(r)
	req.FeedbackInput.IPAddress = &ip
	if ua := r.UserAgent(); ua != "" {
		req.FeedbackInput.UserAgent = &ua
	}

	feedback, err := h.feedbackService.Submit(r.Context(), project, req.FeedbackInput)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("feedback submitted",
		zap.String("project", project.Slug),
		zap.String("feedback_id", feedback.ID.String()))
	if err := WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Feedback submitted",
		"feedback": map[string]any{
			"id":        feedback.ID,
			"createdAt": feedback.CreatedAt,
		},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/client-feedback for both caller kinds. Admins see
// full records across projects; token holders get the redacted projection
// of their own project.
func (h *ClientFeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var caller auth.Caller
	if claims, ok := auth.GetClaims(r.Context()); ok && claims.IsAdmin() {
		caller = auth.AdminCaller(claims)
		if slug := q.Get("projectSlug"); slug != "" {
			items, err := h.feedbackService.ListForAdmin(r.Context(), slug, q.Get("pagePath"), q.Get("status"))
			if err != nil {
				ServiceError(w, h.logger, err)
				return
			}
			if err := WriteJSON(w, http.StatusOK, map[string]any{"feedback": items}); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
			return
		}
	} else {
		// Widget embeds pass the token as ?token=; older dashboard links
		// used ?accessToken= and still work.
		token := q.Get("token")
		if token == "" {
			token = q.Get("accessToken")
		}
		project, err := h.feedbackService.ResolveTokenHolder(r.Context(), q.Get("projectSlug"), token)
		if err != nil {
			if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid project or access token"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		caller = auth.TokenCaller(project)
	}

	items, err := h.feedbackService.ListForCaller(r.Context(), caller, q.Get("pagePath"), q.Get("status"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"feedback": items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/client-feedback, admin only.
func (h *ClientFeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid feedback id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claims, _ := auth.GetClaims(r.Context())
	feedback, err := h.feedbackService.Update(r.Context(), id, req.FeedbackUpdate, claims.Identity())
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	h.auditor.FeedbackModerated(feedback.ID, feedback.Status, claims.Identity())
	if err := WriteJSON(w, http.StatusOK, map[string]any{"feedback": feedback}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/client-feedback/{id}, admin only.
func (h *ClientFeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid feedback id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.feedbackService.Delete(r.Context(), id); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	claims, _ := auth.GetClaims(r.Context())
	h.auditor.FeedbackDeleted(id, claims.Identity())
	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Feedback deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Export handles GET /api/client-feedback/export?projectSlug=..., admin only.
func (h *ClientFeedbackHandler) Export(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("projectSlug")
	if slug == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "projectSlug is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	// Buffer the CSV so a mid-export failure can still produce a clean
	// error response.
	var buf bytes.Buffer
	filename, err := h.exportService.WriteCSV(r.Context(), &buf, slug)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("Failed to write CSV response", zap.Error(err))
	}
}
