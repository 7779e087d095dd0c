package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// BlogHandler handles public post reads and the admin CMS endpoints.
type BlogHandler struct {
	blogService    services.BlogService
	commentService services.CommentService
	authorID       uuid.UUID
	commentLimiter *ratelimit.Limiter
	logger         *zap.Logger
}

// NewBlogHandler creates a new blog handler. authorID is the admin user
// new posts are attributed to.
func NewBlogHandler(
	blogService services.BlogService,
	commentService services.CommentService,
	authorID uuid.UUID,
	commentLimiter *ratelimit.Limiter,
	logger *zap.Logger,
) *BlogHandler {
	return &BlogHandler{
		blogService:    blogService,
		commentService: commentService,
		authorID:       authorID,
		commentLimiter: commentLimiter,
		logger:         logger,
	}
}

// RegisterRoutes registers the blog handler's routes on the given mux.
func (h *BlogHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/posts", h.ListPublished)
	mux.HandleFunc("GET /api/posts/{slug}", h.GetPublished)
	mux.HandleFunc("GET /api/posts/{slug}/comments", h.ListComments)
	mux.HandleFunc("POST /api/posts/{slug}/comments", h.CreateComment)

	mux.HandleFunc("GET /api/admin/posts", mw.RequireAdmin(h.ListAll))
	mux.HandleFunc("POST /api/admin/posts", mw.RequireAdmin(h.Create))
	mux.HandleFunc("GET /api/admin/posts/{id}", mw.RequireAdmin(h.Get))
	mux.HandleFunc("PUT /api/admin/posts/{id}", mw.RequireAdmin(h.Update))
	mux.HandleFunc("DELETE /api/admin/posts/{id}", mw.RequireAdmin(h.Delete))
}

// ListPublished handles GET /api/posts with pagination and filters.
func (h *BlogHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	posts, total, err := h.blogService.ListPublished(r.Context(), page, limit,
		q.Get("category"), q.Get("tag"), q.Get("search"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"total": total,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetPublished handles GET /api/posts/{slug}.
func (h *BlogHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogService.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"post": post}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListComments handles GET /api/posts/{slug}/comments; approved only.
func (h *BlogHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListApproved(r.Context(), r.PathValue("slug"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"comments": comments}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateComment handles POST /api/posts/{slug}/comments.
func (h *BlogHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	if !CheckRateLimit(w, r, h.commentLimiter, h.logger) {
		return
	}

	var input services.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	comment, err := h.commentService.Create(r.Context(), r.PathValue("slug"), input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment submitted for review",
		"comment": map[string]any{"id": comment.ID},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListAll handles GET /api/admin/posts.
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	posts, total, err := h.blogService.ListAll(r.Context(), page, limit)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"posts": posts, "total": total}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/admin/posts/{id}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid post id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	post, err := h.blogService.GetByID(r.Context(), id)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"post": post}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/admin/posts.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	post, err := h.blogService.Create(r.Context(), h.authorID, input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]any{"post": post}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/admin/posts/{id}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid post id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var input services.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	post, err := h.blogService.Update(r.Context(), id, input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"post": post}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/admin/posts/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid post id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.blogService.Delete(r.Context(), id); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
