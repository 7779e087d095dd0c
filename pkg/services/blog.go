package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

var slugScrub = regexp.MustCompile(`[^a-z0-9]+`)

// PostInput carries the admin-supplied fields for post create and update.
type PostInput struct {
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Content       string      `json:"content"`
	Excerpt       *string     `json:"excerpt"`
	FeaturedImage *string     `json:"featuredImage"`
	Status        string      `json:"status"`
	CategoryIDs   []uuid.UUID `json:"categoryIds"`
	TagIDs        []uuid.UUID `json:"tagIds"`
}

// BlogService defines the interface for blog post operations.
type BlogService interface {
	// ListPublished returns reader-visible posts: published and past their
	// publication date.
	ListPublished(ctx context.Context, page, limit int, categorySlug, tagSlug, search string) ([]*models.BlogPost, int, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.BlogPost, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*models.BlogPost, error)
	Update(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// blogService implements BlogService.
type blogService struct {
	posts repositories.PostRepository
	now   func() time.Time
}

// NewBlogService creates a new blog service.
func NewBlogService(posts repositories.PostRepository) BlogService {
	return &blogService{posts: posts, now: time.Now}
}

// ListPublished returns a page of published posts plus the total count.
func (s *blogService) ListPublished(ctx context.Context, page, limit int, categorySlug, tagSlug, search string) ([]*models.BlogPost, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.posts.List(ctx, repositories.PostFilter{
		Status:       models.PostStatusPublished,
		CategorySlug: categorySlug,
		TagSlug:      tagSlug,
		Search:       search,
		Page:         page,
		Limit:        limit,
	})
}

// GetPublishedBySlug returns a post only when readers should see it. A
// draft or future-dated post is indistinguishable from a missing one.
func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished || post.PublishedAt == nil || post.PublishedAt.After(s.now()) {
		return nil, apperrors.ErrNotFound
	}
	return post, nil
}

// ListAll returns every post for the admin dashboard.
func (s *blogService) ListAll(ctx context.Context, page, limit int) ([]*models.BlogPost, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.posts.List(ctx, repositories.PostFilter{Page: page, Limit: limit})
}

// GetByID returns a post regardless of status.
func (s *blogService) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return s.posts.GetByID(ctx, id)
}

// Create validates and stores a new post. Publishing without an explicit
// publication date stamps now.
func (s *blogService) Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, apperrors.NewValidation("title", "title is required")
	}
	if content == "" {
		return nil, apperrors.NewValidation("content", "content is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return nil, apperrors.NewValidation("slug", "slug is required")
	}

	status := input.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if status != models.PostStatusDraft && status != models.PostStatusPublished {
		return nil, apperrors.NewValidation("status", "invalid post status")
	}

	post := &models.BlogPost{
		Title:         title,
		Slug:          slug,
		Content:       content,
		Excerpt:       jsonutil.TrimmedOrNil(input.Excerpt),
		FeaturedImage: jsonutil.TrimmedOrNil(input.FeaturedImage),
		Status:        status,
		AuthorID:      authorID,
	}
	if status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if err := s.posts.SetTaxonomies(ctx, post.ID, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

// Update applies changes to an existing post. Moving draft→published for
// the first time stamps PublishedAt; re-publishing keeps the original date.
func (s *blogService) Update(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		post.Content = content
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		post.Slug = Slugify(slug)
	}
	if input.Excerpt != nil {
		post.Excerpt = jsonutil.TrimmedOrNil(input.Excerpt)
	}
	if input.FeaturedImage != nil {
		post.FeaturedImage = jsonutil.TrimmedOrNil(input.FeaturedImage)
	}
	if input.Status != "" {
		if input.Status != models.PostStatusDraft && input.Status != models.PostStatusPublished {
			return nil, apperrors.NewValidation("status", "invalid post status")
		}
		if input.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := s.now()
			post.PublishedAt = &now
		}
		post.Status = input.Status
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if input.CategoryIDs != nil || input.TagIDs != nil {
		if err := s.posts.SetTaxonomies(ctx, post.ID, input.CategoryIDs, input.TagIDs); err != nil {
			return nil, err
		}
	}
	return s.posts.GetByID(ctx, post.ID)
}

// Delete removes a post and its comments.
func (s *blogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.posts.Delete(ctx, id)
}

// Slugify lowercases and reduces a string to hyphen-separated alphanumerics.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugScrub.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Ensure blogService implements BlogService at compile time.
var _ BlogService = (*blogService)(nil)
