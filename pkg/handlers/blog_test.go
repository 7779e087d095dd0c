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

func newBlogMux(t *testing.T, blog *mockBlogService, comments *mockCommentService, authorID uuid.UUID) (*http.ServeMux, auth.AuthService) {
	t.Helper()

	svc, mw := newTestAuth(t)
	h := NewBlogHandler(blog, comments, authorID, newTestLimiter(t, 10), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux, svc
}

func TestListPosts_Public(t *testing.T) {
	blog := &mockBlogService{
		posts: []*models.BlogPost{{ID: uuid.New(), Title: "Go 1.22 routing", Slug: "go-122-routing"}},
		total: 1,
	}
	mux, _ := newBlogMux(t, blog, &mockCommentService{}, uuid.New())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts?page=1&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), "go-122-routing")
}

func TestGetPost_DraftIsHidden(t *testing.T) {
	blog := &mockBlogService{getErr: apperrors.ErrNotFound}
	mux, _ := newBlogMux(t, blog, &mockCommentService{}, uuid.New())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/secret-draft", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "secret-draft", blog.capturedSlug)
}

func TestCreateComment_PendingReview(t *testing.T) {
	comments := &mockCommentService{
		comment: &models.Comment{ID: uuid.New(), Status: models.CommentStatusPending},
	}
	mux, _ := newBlogMux(t, &mockBlogService{}, comments, uuid.New())

	body := `{"authorName":"Dana","authorEmail":"dana@example.com","content":"Great post"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts/go-122-routing/comments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "go-122-routing", comments.capturedSlug)
	assert.Equal(t, "Dana", comments.capturedInput.AuthorName)
	assert.Contains(t, rec.Body.String(), "Comment submitted for review")
}

func TestCreatePost_UsesConfiguredAuthor(t *testing.T) {
	authorID := uuid.New()
	blog := &mockBlogService{
		post: &models.BlogPost{ID: uuid.New(), Title: "New post", Slug: "new-post"},
	}
	mux, svc := newBlogMux(t, blog, &mockCommentService{}, authorID)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(`{"title":"New post","content":"body"}`))
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, authorID, blog.capturedAuthorID)
	assert.Equal(t, "New post", blog.capturedInput.Title)
}

func TestAdminPosts_RequireSession(t *testing.T) {
	mux, _ := newBlogMux(t, &mockBlogService{}, &mockCommentService{}, uuid.New())

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/posts"},
		{http.MethodPost, "/api/admin/posts"},
		{http.MethodPut, "/api/admin/posts/" + uuid.NewString()},
		{http.MethodDelete, "/api/admin/posts/" + uuid.NewString()},
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestDeletePost_InvalidID(t *testing.T) {
	mux, svc := newBlogMux(t, &mockBlogService{}, &mockCommentService{}, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/posts/not-a-uuid", nil)
	for _, c := range adminCookies(t, svc) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
