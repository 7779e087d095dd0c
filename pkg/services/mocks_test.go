package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// mockProjectRepository is a configurable mock for ClientProjectRepository.
type mockProjectRepository struct {
	project   *models.ClientProject
	projects  []*models.ClientProject
	createErr error
	getErr    error
	updateErr error
	deleteErr error

	capturedProject *models.ClientProject
	capturedSlug    string
	capturedToken   string
}

func (m *mockProjectRepository) Create(ctx context.Context, p *models.ClientProject) error {
	m.capturedProject = p
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	return nil
}

func (m *mockProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error) {
	m.capturedSlug = slug
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.project == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.project, nil
}

func (m *mockProjectRepository) GetBySlugAndToken(ctx context.Context, slug, token string) (*models.ClientProject, error) {
	m.capturedSlug = slug
	m.capturedToken = token
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.project == nil || m.project.Slug != slug || m.project.AccessToken != token || !m.project.AccessEnabled {
		return nil, apperrors.ErrNotFound
	}
	return m.project, nil
}

func (m *mockProjectRepository) List(ctx context.Context, status string) ([]*models.ClientProject, error) {
	return m.projects, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, p *models.ClientProject) error {
	m.capturedProject = p
	return m.updateErr
}

func (m *mockProjectRepository) Delete(ctx context.Context, slug string) error {
	m.capturedSlug = slug
	return m.deleteErr
}

// mockFeedbackRepository is a configurable mock for FeedbackRepository.
type mockFeedbackRepository struct {
	feedback  *models.ClientFeedback
	items     []*models.ClientFeedback
	createErr error
	getErr    error
	updateErr error
	deleteErr error

	capturedFeedback *models.ClientFeedback
	capturedFilter   repositories.FeedbackFilter
	capturedID       uuid.UUID
}

func (m *mockFeedbackRepository) Create(ctx context.Context, f *models.ClientFeedback) error {
	m.capturedFeedback = f
	if m.createErr != nil {
		return m.createErr
	}
	f.ID = uuid.New()
	return nil
}

func (m *mockFeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientFeedback, error) {
	m.capturedID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.feedback == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.feedback, nil
}

func (m *mockFeedbackRepository) List(ctx context.Context, filter repositories.FeedbackFilter) ([]*models.ClientFeedback, error) {
	m.capturedFilter = filter
	return m.items, nil
}

func (m *mockFeedbackRepository) Update(ctx context.Context, f *models.ClientFeedback) error {
	m.capturedFeedback = f
	return m.updateErr
}

func (m *mockFeedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

// mockPostRepository is a configurable mock for PostRepository.
type mockPostRepository struct {
	post      *models.BlogPost
	posts     []*models.BlogPost
	total     int
	createErr error
	getErr    error
	updateErr error
	deleteErr error

	capturedPost   *models.BlogPost
	capturedFilter repositories.PostFilter
	capturedCats   []uuid.UUID
	capturedTags   []uuid.UUID
}

func (m *mockPostRepository) Create(ctx context.Context, p *models.BlogPost) error {
	m.capturedPost = p
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	m.post = p
	return nil
}

func (m *mockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.post == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.post, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.post == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.post, nil
}

func (m *mockPostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*models.BlogPost, int, error) {
	m.capturedFilter = filter
	return m.posts, m.total, nil
}

func (m *mockPostRepository) Update(ctx context.Context, p *models.BlogPost) error {
	m.capturedPost = p
	return m.updateErr
}

func (m *mockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteErr
}

func (m *mockPostRepository) SetTaxonomies(ctx context.Context, postID uuid.UUID, categoryIDs, tagIDs []uuid.UUID) error {
	m.capturedCats = categoryIDs
	m.capturedTags = tagIDs
	return nil
}

// mockCommentRepository is a configurable mock for CommentRepository.
type mockCommentRepository struct {
	comments  []*models.Comment
	createErr error
	updateErr error
	deleteErr error

	capturedComment *models.Comment
	capturedStatus  string
	capturedID      uuid.UUID
}

func (m *mockCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	m.capturedComment = c
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = uuid.New()
	return nil
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, status string) ([]*models.Comment, error) {
	m.capturedStatus = status
	return m.comments, nil
}

func (m *mockCommentRepository) ListAll(ctx context.Context, status string) ([]*models.Comment, error) {
	m.capturedStatus = status
	return m.comments, nil
}

func (m *mockCommentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.capturedID = id
	m.capturedStatus = status
	return m.updateErr
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

// mockPageViewRepository is a configurable mock for PageViewRepository.
type mockPageViewRepository struct {
	views     []*models.PageView
	stats     *models.AnalyticsStats
	createErr error

	capturedView *models.PageView
	capturedDays int
	geoUpdates   int
}

func (m *mockPageViewRepository) Create(ctx context.Context, v *models.PageView) error {
	m.capturedView = v
	return m.createErr
}

func (m *mockPageViewRepository) Stats(ctx context.Context, days int) (*models.AnalyticsStats, error) {
	m.capturedDays = days
	return m.stats, nil
}

func (m *mockPageViewRepository) ListMissingGeo(ctx context.Context, limit int) ([]*models.PageView, error) {
	return m.views, nil
}

func (m *mockPageViewRepository) UpdateGeo(ctx context.Context, id uuid.UUID, country, city *string) error {
	m.geoUpdates++
	return nil
}

// mockResumeRepository is a configurable mock for ResumeDownloadRepository.
type mockResumeRepository struct {
	downloads []*models.ResumeDownload
	stats     *models.ResumeDownloadStats
	createErr error

	capturedDownload *models.ResumeDownload
}

func (m *mockResumeRepository) Create(ctx context.Context, d *models.ResumeDownload) error {
	m.capturedDownload = d
	return m.createErr
}

func (m *mockResumeRepository) List(ctx context.Context, limit int) ([]*models.ResumeDownload, error) {
	return m.downloads, nil
}

func (m *mockResumeRepository) Stats(ctx context.Context) (*models.ResumeDownloadStats, error) {
	return m.stats, nil
}
