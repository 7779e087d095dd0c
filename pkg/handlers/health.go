package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/config"
	"github.com/Legolasan/legolasan-in/pkg/database"
)

// HealthResponse contains service status and version information.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	GoVersion string `json:"go_version"`
	Database  string `json:"database"`
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, db *database.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/health", h.Detail)
}

// Health handles GET /health. A bare "ok" keeps platform probes cheap.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Detail handles GET /api/health with version and database status.
func (h *HealthHandler) Detail(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
	}

	response := HealthResponse{
		Status:    "ok",
		Version:   h.cfg.Version,
		Service:   "legolasan-in",
		GoVersion: runtime.Version(),
		Database:  dbStatus,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
