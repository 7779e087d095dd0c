package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
)

func newAuthMux(t *testing.T) (*http.ServeMux, auth.AuthService) {
	t.Helper()

	svc, mw := newTestAuth(t)
	h := NewAuthHandler(svc, audit.New(zap.NewNop()), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux, svc
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	mux, _ := newAuthMux(t)

	body := `{"email":"admin@example.com","password":"hunter2"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin@example.com"`)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_WrongCredentialsAreUniform(t *testing.T) {
	mux, _ := newAuthMux(t)

	for _, body := range []string{
		`{"email":"nobody@example.com","password":"hunter2"}`,
		`{"email":"admin@example.com","password":"wrong"}`,
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized","message":"Invalid credentials"}`, rec.Body.String())
	}
}

func TestMe_ReturnsClaims(t *testing.T) {
	mux, svc := newAuthMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@example.com")
}

func TestMe_WithoutSession(t *testing.T) {
	mux, _ := newAuthMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ExpiresSession(t *testing.T) {
	mux, svc := newAuthMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}
