package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// StaticHandler serves the built frontend and the embeddable widget from an
// fs.FS. Unknown extensionless paths fall back to index.html so client-side
// routing works on hard reloads.
type StaticHandler struct {
	files      fs.FS
	fileServer http.Handler
}

// NewStaticHandler creates a static handler over the given filesystem,
// typically ui.DistFS().
func NewStaticHandler(files fs.FS) *StaticHandler {
	return &StaticHandler{
		files:      files,
		fileServer: http.FileServerFS(files),
	}
}

// RegisterRoutes registers the catch-all static route on the given mux.
// Must be registered last; the mux prefers the more specific /api routes.
func (h *StaticHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", h)
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	if _, err := fs.Stat(h.files, name); err != nil {
		// SPA fallback: routes like /blog/my-post have no file behind
		// them. Asset-looking paths 404 normally.
		if path.Ext(name) == "" {
			http.ServeFileFS(w, r, h.files, "index.html")
			return
		}
		http.NotFound(w, r)
		return
	}

	h.fileServer.ServeHTTP(w, r)
}
