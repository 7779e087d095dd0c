package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

func newAnalyticsMux(t *testing.T, analytics *mockAnalyticsService, limit int) (*http.ServeMux, auth.AuthService) {
	t.Helper()

	svc, mw := newTestAuth(t)
	h := NewAnalyticsHandler(analytics, newTestLimiter(t, limit), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux, svc
}

func TestTrack_Success(t *testing.T) {
	analytics := &mockAnalyticsService{}
	mux, _ := newAnalyticsMux(t, analytics, 10)

	body := `{"pagePath":"/blog/go-112","referrer":"https://news.ycombinator.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, "/blog/go-112", analytics.capturedInput.PagePath)
	assert.Equal(t, "Mozilla/5.0", analytics.capturedInput.UserAgent)
	assert.NotEmpty(t, analytics.capturedInput.IPAddress)
}

func TestTrack_StorageFailureStays200(t *testing.T) {
	analytics := &mockAnalyticsService{trackErr: errors.New("db down")}
	mux, _ := newAnalyticsMux(t, analytics, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{"pagePath":"/"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
}

func TestTrack_MalformedBodyStays200(t *testing.T) {
	mux, _ := newAnalyticsMux(t, &mockAnalyticsService{}, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{broken`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
}

func TestTrack_RateLimited(t *testing.T) {
	mux, _ := newAnalyticsMux(t, &mockAnalyticsService{}, 1)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{"pagePath":"/"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{"pagePath":"/"}`)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestStats_PassesDays(t *testing.T) {
	analytics := &mockAnalyticsService{stats: &models.AnalyticsStats{TotalViews: 42}}
	mux, svc := newAnalyticsMux(t, analytics, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats?days=7", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, analytics.capturedDays)
	assert.Contains(t, rec.Body.String(), `"totalViews":42`)
}

func TestStats_RequiresAdmin(t *testing.T) {
	mux, _ := newAnalyticsMux(t, &mockAnalyticsService{}, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBackfillGeo_ReturnsCount(t *testing.T) {
	analytics := &mockAnalyticsService{updated: 3}
	mux, svc := newAnalyticsMux(t, analytics, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/backfill-geo?limit=50", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, analytics.capturedLimit)
	assert.JSONEq(t, `{"updated":3}`, rec.Body.String())
}
