package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/config"
	"github.com/Legolasan/legolasan-in/pkg/llm"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// newTestAuth builds a real auth service and middleware around a known
// admin account so handler tests exercise the actual session path.
func newTestAuth(t *testing.T) (auth.AuthService, *auth.Middleware) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.AuthConfig{
		SessionSecret:     "test-secret",
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
		AdminName:         "Site Admin",
		SessionTTLMinutes: 60,
	}
	store := auth.NewSessionStore(cfg.SessionSecret, false, 3600)
	svc := auth.NewAuthService(cfg, store)
	return svc, auth.NewMiddleware(svc, zap.NewNop())
}

// adminCookies logs in and returns cookies carrying an admin session.
func adminCookies(t *testing.T, svc auth.AuthService) []*http.Cookie {
	t.Helper()

	claims, err := svc.Login("admin@example.com", "hunter2")
	require.NoError(t, err)
	token, err := svc.IssueToken(claims)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	session, err := svc.Store().Get(r, auth.SessionName)
	require.NoError(t, err)
	session.Values[auth.SessionKeyToken] = token
	require.NoError(t, session.Save(r, w))

	return w.Result().Cookies()
}

// newTestLimiter returns a limiter that is stopped when the test ends.
func newTestLimiter(t *testing.T, limit int) *ratelimit.Limiter {
	t.Helper()

	l := ratelimit.New(ratelimit.Config{Limit: limit, Window: time.Minute})
	t.Cleanup(l.Stop)
	return l
}

// mockFeedbackService is a configurable FeedbackService for handler tests.
type mockFeedbackService struct {
	project    *models.ClientProject
	resolveErr error
	submitted  *models.ClientFeedback
	submitErr  error
	listResult any
	listErr    error
	adminList  []*models.ClientFeedback
	updated    *models.ClientFeedback
	updateErr  error
	deleteErr  error

	capturedSlug   string
	capturedToken  string
	capturedInput  services.FeedbackInput
	capturedCaller auth.Caller
	capturedUpdate services.FeedbackUpdate
	capturedActor  string
	capturedID     uuid.UUID
}

func (m *mockFeedbackService) ResolveTokenHolder(ctx context.Context, slug, token string) (*models.ClientProject, error) {
	m.capturedSlug = slug
	m.capturedToken = token
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	return m.project, nil
}

func (m *mockFeedbackService) Submit(ctx context.Context, project *models.ClientProject, input services.FeedbackInput) (*models.ClientFeedback, error) {
	m.capturedInput = input
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitted, nil
}

func (m *mockFeedbackService) ListForCaller(ctx context.Context, caller auth.Caller, pagePath, status string) (any, error) {
	m.capturedCaller = caller
	return m.listResult, m.listErr
}

func (m *mockFeedbackService) ListForAdmin(ctx context.Context, projectSlug, pagePath, status string) ([]*models.ClientFeedback, error) {
	m.capturedSlug = projectSlug
	return m.adminList, m.listErr
}

func (m *mockFeedbackService) Update(ctx context.Context, id uuid.UUID, update services.FeedbackUpdate, actor string) (*models.ClientFeedback, error) {
	m.capturedID = id
	m.capturedUpdate = update
	m.capturedActor = actor
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updated, nil
}

func (m *mockFeedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

// mockExportService writes a canned CSV body.
type mockExportService struct {
	body     string
	filename string
	err      error

	capturedSlug string
}

func (m *mockExportService) WriteCSV(ctx context.Context, w io.Writer, projectSlug string) (string, error) {
	m.capturedSlug = projectSlug
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.WriteString(w, m.body); err != nil {
		return "", err
	}
	return m.filename, nil
}

// mockProjectService is a configurable ProjectService for handler tests.
type mockProjectService struct {
	project   *models.ClientProject
	projects  []*models.ClientProject
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	capturedInput services.ProjectInput
	capturedSlug  string
}

func (m *mockProjectService) Create(ctx context.Context, input services.ProjectInput) (*models.ClientProject, error) {
	m.capturedInput = input
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.project, nil
}

func (m *mockProjectService) GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error) {
	m.capturedSlug = slug
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectService) List(ctx context.Context, status string) ([]*models.ClientProject, error) {
	return m.projects, m.listErr
}

func (m *mockProjectService) Update(ctx context.Context, slug string, input services.ProjectInput) (*models.ClientProject, error) {
	m.capturedSlug = slug
	m.capturedInput = input
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.project, nil
}

func (m *mockProjectService) Delete(ctx context.Context, slug string) error {
	m.capturedSlug = slug
	return m.deleteErr
}

// mockBlogService is a configurable BlogService for handler tests.
type mockBlogService struct {
	post      *models.BlogPost
	posts     []*models.BlogPost
	total     int
	getErr    error
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	capturedAuthorID uuid.UUID
	capturedInput    services.PostInput
	capturedSlug     string
	capturedID       uuid.UUID
}

func (m *mockBlogService) ListPublished(ctx context.Context, page, limit int, categorySlug, tagSlug, search string) ([]*models.BlogPost, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.posts, m.total, nil
}

func (m *mockBlogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	m.capturedSlug = slug
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.post, nil
}

func (m *mockBlogService) ListAll(ctx context.Context, page, limit int) ([]*models.BlogPost, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.posts, m.total, nil
}

func (m *mockBlogService) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	m.capturedID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.post, nil
}

func (m *mockBlogService) Create(ctx context.Context, authorID uuid.UUID, input services.PostInput) (*models.BlogPost, error) {
	m.capturedAuthorID = authorID
	m.capturedInput = input
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.post, nil
}

func (m *mockBlogService) Update(ctx context.Context, id uuid.UUID, input services.PostInput) (*models.BlogPost, error) {
	m.capturedID = id
	m.capturedInput = input
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.post, nil
}

func (m *mockBlogService) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

// mockCommentService is a configurable CommentService for handler tests.
type mockCommentService struct {
	comment   *models.Comment
	comments  []*models.Comment
	createErr error
	listErr   error
	statusErr error
	deleteErr error

	capturedSlug   string
	capturedInput  services.CommentInput
	capturedID     uuid.UUID
	capturedStatus string
}

func (m *mockCommentService) Create(ctx context.Context, postSlug string, input services.CommentInput) (*models.Comment, error) {
	m.capturedSlug = postSlug
	m.capturedInput = input
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.comment, nil
}

func (m *mockCommentService) ListApproved(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	m.capturedSlug = postSlug
	return m.comments, m.listErr
}

func (m *mockCommentService) ListAll(ctx context.Context, status string) ([]*models.Comment, error) {
	m.capturedStatus = status
	return m.comments, m.listErr
}

func (m *mockCommentService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.capturedID = id
	m.capturedStatus = status
	return m.statusErr
}

func (m *mockCommentService) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

// mockAnalyticsService is a configurable AnalyticsService for handler tests.
type mockAnalyticsService struct {
	stats       *models.AnalyticsStats
	updated     int
	trackErr    error
	statsErr    error
	backfillErr error

	capturedInput services.TrackInput
	capturedDays  int
	capturedLimit int
}

func (m *mockAnalyticsService) Track(ctx context.Context, input services.TrackInput) error {
	m.capturedInput = input
	return m.trackErr
}

func (m *mockAnalyticsService) Stats(ctx context.Context, days int) (*models.AnalyticsStats, error) {
	m.capturedDays = days
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockAnalyticsService) BackfillGeo(ctx context.Context, limit int) (int, error) {
	m.capturedLimit = limit
	if m.backfillErr != nil {
		return 0, m.backfillErr
	}
	return m.updated, nil
}

// mockResumeService is a configurable ResumeService for handler tests.
type mockResumeService struct {
	download  *models.ResumeDownload
	downloads []*models.ResumeDownload
	stats     *models.ResumeDownloadStats
	trackErr  error
	listErr   error
	statsErr  error

	capturedInput services.ResumeDownloadInput
}

func (m *mockResumeService) Track(ctx context.Context, input services.ResumeDownloadInput) (*models.ResumeDownload, error) {
	m.capturedInput = input
	if m.trackErr != nil {
		return nil, m.trackErr
	}
	return m.download, nil
}

func (m *mockResumeService) List(ctx context.Context, limit int) ([]*models.ResumeDownload, error) {
	return m.downloads, m.listErr
}

func (m *mockResumeService) Stats(ctx context.Context) (*models.ResumeDownloadStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

// mockFeatureService is a configurable FeatureService for handler tests.
type mockFeatureService struct {
	flags  map[string]bool
	getErr error
	setErr error

	capturedFlag    string
	capturedEnabled bool
}

func (m *mockFeatureService) Flags(ctx context.Context) (map[string]bool, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.flags, nil
}

func (m *mockFeatureService) SetFlag(ctx context.Context, name string, enabled bool) error {
	m.capturedFlag = name
	m.capturedEnabled = enabled
	return m.setErr
}

// mockChatService replays deltas and then returns err, mimicking a stream
// that may fail mid-flight.
type mockChatService struct {
	deltas []string
	err    error

	capturedMessages []llm.Message
}

func (m *mockChatService) Stream(ctx context.Context, messages []llm.Message, onDelta func(content string) error) error {
	m.capturedMessages = messages
	for _, d := range m.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return m.err
}
