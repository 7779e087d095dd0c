package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

func newResumeMux(t *testing.T, resume *mockResumeService, limit int) (*http.ServeMux, auth.AuthService) {
	t.Helper()

	svc, mw := newTestAuth(t)
	h := NewResumeHandler(resume, newTestLimiter(t, limit), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux, svc
}

func TestTrackResumeDownload_Created(t *testing.T) {
	resume := &mockResumeService{
		download: &models.ResumeDownload{ID: uuid.New(), Email: "hr@corp.com", Domain: "corp.com"},
	}
	mux, _ := newResumeMux(t, resume, 10)

	body := `{"email":"hr@corp.com","name":"HR Team"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/resume/track", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hr@corp.com", resume.capturedInput.Email)
	require.NotNil(t, resume.capturedInput.IPAddress)
}

func TestTrackResumeDownload_BadEmail(t *testing.T) {
	resume := &mockResumeService{trackErr: apperrors.NewValidation("email", "a valid email is required")}
	mux, _ := newResumeMux(t, resume, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/resume/track", strings.NewReader(`{"email":"nope"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestTrackResumeDownload_RateLimited(t *testing.T) {
	resume := &mockResumeService{download: &models.ResumeDownload{ID: uuid.New()}}
	mux, _ := newResumeMux(t, resume, 1)

	body := `{"email":"hr@corp.com"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/resume/track", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/resume/track", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestListResumeDownloads_AdminOnly(t *testing.T) {
	resume := &mockResumeService{
		downloads: []*models.ResumeDownload{{ID: uuid.New(), Email: "hr@corp.com", Domain: "corp.com"}},
		stats:     &models.ResumeDownloadStats{Total: 1, UniqueDomains: 1},
	}
	mux, svc := newResumeMux(t, resume, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/resume-downloads", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/resume-downloads", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), "corp.com")
}
