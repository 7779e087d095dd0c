package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// CommentInput is the anonymous comment payload.
type CommentInput struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Content     string `json:"content"`
}

// CommentService defines the interface for blog comment operations.
type CommentService interface {
	// Create stores a pending comment on a published post.
	Create(ctx context.Context, postSlug string, input CommentInput) (*models.Comment, error)
	// ListApproved returns reader-visible comments for a post.
	ListApproved(ctx context.Context, postSlug string) ([]*models.Comment, error)
	ListAll(ctx context.Context, status string) ([]*models.Comment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// commentService implements CommentService.
type commentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

// Create validates and stores an anonymous comment. The post must exist;
// moderation decides visibility later.
func (s *commentService) Create(ctx context.Context, postSlug string, input CommentInput) (*models.Comment, error) {
	name := strings.TrimSpace(input.AuthorName)
	email := strings.TrimSpace(input.AuthorEmail)
	content := strings.TrimSpace(input.Content)

	if name == "" {
		return nil, apperrors.NewValidation("authorName", "name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, apperrors.NewValidation("authorName", "name must be 100 characters or less")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidation("authorEmail", "a valid email is required")
	}
	if utf8.RuneCountInString(email) > 200 {
		return nil, apperrors.NewValidation("authorEmail", "email must be 200 characters or less")
	}
	if content == "" {
		return nil, apperrors.NewValidation("content", "content is required")
	}
	if utf8.RuneCountInString(content) > 5000 {
		return nil, apperrors.NewValidation("content", "content must be 5000 characters or less")
	}

	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:      post.ID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListApproved returns approved comments oldest-first.
func (s *commentService) ListApproved(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, post.ID, models.CommentStatusApproved)
}

// ListAll returns the moderation queue.
func (s *commentService) ListAll(ctx context.Context, status string) ([]*models.Comment, error) {
	if status != "" && !models.IsValidCommentStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid comment status")
	}
	return s.comments.ListAll(ctx, status)
}

// SetStatus moves a comment through moderation.
func (s *commentService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !models.IsValidCommentStatus(status) {
		return apperrors.NewValidation("status", "invalid comment status")
	}
	return s.comments.UpdateStatus(ctx, id, status)
}

// Delete removes a comment.
func (s *commentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.comments.Delete(ctx, id)
}

// Ensure commentService implements CommentService at compile time.
var _ CommentService = (*commentService)(nil)
