package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// TaxonomyHandler handles category and tag endpoints. Reads are public so
// the blog can render filter chips; writes are admin only.
type TaxonomyHandler struct {
	repo   repositories.TaxonomyRepository
	logger *zap.Logger
}

// NewTaxonomyHandler creates a new taxonomy handler.
func NewTaxonomyHandler(repo repositories.TaxonomyRepository, logger *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the taxonomy handler's routes on the given mux.
func (h *TaxonomyHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/tags", h.ListTags)
	mux.HandleFunc("POST /api/admin/categories", mw.RequireAdmin(h.CreateCategory))
	mux.HandleFunc("POST /api/admin/tags", mw.RequireAdmin(h.CreateTag))
	mux.HandleFunc("DELETE /api/admin/categories/{id}", mw.RequireAdmin(h.DeleteCategory))
	mux.HandleFunc("DELETE /api/admin/tags/{id}", mw.RequireAdmin(h.DeleteTag))
}

// ListCategories handles GET /api/categories.
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListCategories(r.Context())
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"categories": items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListTags handles GET /api/tags.
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListTags(r.Context())
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"tags": items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *TaxonomyHandler) create(w http.ResponseWriter, r *http.Request, save func(*models.Taxonomy) error) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	entry := &models.Taxonomy{Name: req.Name, Slug: services.Slugify(req.Name)}
	if err := save(entry); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, entry); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateCategory handles POST /api/admin/categories.
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(t *models.Taxonomy) error { return h.repo.CreateCategory(r.Context(), t) })
}

// CreateTag handles POST /api/admin/tags.
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(t *models.Taxonomy) error { return h.repo.CreateTag(r.Context(), t) })
}

func (h *TaxonomyHandler) delete(w http.ResponseWriter, r *http.Request, remove func(uuid.UUID) error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := remove(id); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteCategory handles DELETE /api/admin/categories/{id}.
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, func(id uuid.UUID) error { return h.repo.DeleteCategory(r.Context(), id) })
}

// DeleteTag handles DELETE /api/admin/tags/{id}.
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, func(id uuid.UUID) error { return h.repo.DeleteTag(r.Context(), id) })
}
