package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// ClientProjectsHandler handles the admin project CRUD endpoints.
type ClientProjectsHandler struct {
	projectService services.ProjectService
	auditor        *audit.Auditor
	logger         *zap.Logger
}

// NewClientProjectsHandler creates a new client projects handler.
func NewClientProjectsHandler(projectService services.ProjectService, auditor *audit.Auditor, logger *zap.Logger) *ClientProjectsHandler {
	return &ClientProjectsHandler{projectService: projectService, auditor: auditor, logger: logger}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
// Everything here is admin only.
func (h *ClientProjectsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/client-projects", mw.RequireAdmin(h.List))
	mux.HandleFunc("POST /api/client-projects", mw.RequireAdmin(h.Create))
	mux.HandleFunc("GET /api/client-projects/{slug}", mw.RequireAdmin(h.Get))
	mux.HandleFunc("PUT /api/client-projects/{slug}", mw.RequireAdmin(h.Update))
	mux.HandleFunc("DELETE /api/client-projects/{slug}", mw.RequireAdmin(h.Delete))
}

// List handles GET /api/client-projects with an optional status filter.
func (h *ClientProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"projects": projects}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/client-projects.
func (h *ClientProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.projectService.Create(r.Context(), input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("project created", zap.String("slug", project.Slug))
	if err := WriteJSON(w, http.StatusCreated, map[string]any{"project": project}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/client-projects/{slug}.
func (h *ClientProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"project": project}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/client-projects/{slug}.
func (h *ClientProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.projectService.Update(r.Context(), r.PathValue("slug"), input)
	if err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"project": project}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/client-projects/{slug}. Feedback goes with it.
func (h *ClientProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := h.projectService.Delete(r.Context(), slug); err != nil {
		ServiceError(w, h.logger, err)
		return
	}

	claims, _ := auth.GetClaims(r.Context())
	h.auditor.ProjectDeleted(slug, claims.Identity())
	h.logger.Info("project deleted", zap.String("slug", slug))
	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
