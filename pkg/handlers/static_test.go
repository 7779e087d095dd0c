package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func staticTestFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":      &fstest.MapFile{Data: []byte("<!DOCTYPE html><html></html>")},
		"widget.js":       &fstest.MapFile{Data: []byte("(function(){})();")},
		"assets/site.css": &fstest.MapFile{Data: []byte("body{}")},
	}
}

func TestStatic_ServesFiles(t *testing.T) {
	h := NewStaticHandler(staticTestFS())

	for _, p := range []string{"/", "/index.html", "/widget.js", "/assets/site.css"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
}

func TestStatic_SPAFallback(t *testing.T) {
	h := NewStaticHandler(staticTestFS())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/some-post", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestStatic_MissingAssetIs404(t *testing.T) {
	h := NewStaticHandler(staticTestFS())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
