package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// CommentsHandler handles the admin comment moderation endpoints.
type CommentsHandler struct {
	commentService services.CommentService
	logger         *zap.Logger
}

// NewCommentsHandler creates a new comments handler.
func NewCommentsHandler(commentService services.CommentService, logger *zap.Logger) *CommentsHandler {
	return &CommentsHandler{commentService: commentService, logger: logger}
}

// RegisterRoutes registers the comments handler's routes on the given mux.
func (h *CommentsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/admin/comments", mw.RequireAdmin(h.List))
	mux.HandleFunc("PUT /api/admin/comments/{id}", mw.RequireAdmin(h.SetStatus))
	mux.HandleFunc("DELETE /api/admin/comments/{id}", mw.RequireAdmin(h.Delete))
}

// List handles GET /api/admin/comments?status=...
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"comments": comments}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetStatus handles PUT /api/admin/comments/{id} with {"status": ...}.
func (h *CommentsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid comment id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.commentService.SetStatus(r.Context(), id, req.Status); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment updated"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/admin/comments/{id}.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid comment id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.commentService.Delete(r.Context(), id); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
