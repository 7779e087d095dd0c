package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// mockTaxonomyRepository is a configurable TaxonomyRepository.
type mockTaxonomyRepository struct {
	categories []models.Taxonomy
	tags       []models.Taxonomy
	listErr    error
	createErr  error
	deleteErr  error

	capturedEntry *models.Taxonomy
	capturedID    uuid.UUID
}

func (m *mockTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Taxonomy, error) {
	return m.categories, m.listErr
}

func (m *mockTaxonomyRepository) ListTags(ctx context.Context) ([]models.Taxonomy, error) {
	return m.tags, m.listErr
}

func (m *mockTaxonomyRepository) CreateCategory(ctx context.Context, t *models.Taxonomy) error {
	m.capturedEntry = t
	if m.createErr != nil {
		return m.createErr
	}
	t.ID = uuid.New()
	return nil
}

func (m *mockTaxonomyRepository) CreateTag(ctx context.Context, t *models.Taxonomy) error {
	m.capturedEntry = t
	if m.createErr != nil {
		return m.createErr
	}
	t.ID = uuid.New()
	return nil
}

func (m *mockTaxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

func (m *mockTaxonomyRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

func newTaxonomyMux(t *testing.T, repo *mockTaxonomyRepository) (*http.ServeMux, auth.AuthService) {
	t.Helper()

	svc, mw := newTestAuth(t)
	h := NewTaxonomyHandler(repo, zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux, svc
}

func TestListCategories_Public(t *testing.T) {
	repo := &mockTaxonomyRepository{
		categories: []models.Taxonomy{{ID: uuid.New(), Name: "Go", Slug: "go"}},
	}
	mux, _ := newTaxonomyMux(t, repo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"go"`)
}

func TestCreateCategory_SlugsTheName(t *testing.T) {
	repo := &mockTaxonomyRepository{}
	mux, svc := newTaxonomyMux(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Distributed Systems"}`))
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, repo.capturedEntry)
	assert.Equal(t, "Distributed Systems", repo.capturedEntry.Name)
	assert.Equal(t, "distributed-systems", repo.capturedEntry.Slug)
}

func TestCreateTag_RequiresName(t *testing.T) {
	mux, svc := newTaxonomyMux(t, &mockTaxonomyRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/tags", strings.NewReader(`{}`))
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTag_AdminOnly(t *testing.T) {
	repo := &mockTaxonomyRepository{}
	mux, svc := newTaxonomyMux(t, repo)

	id := uuid.New()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/tags/"+id.String(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/tags/"+id.String(), nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, repo.capturedID)
}
