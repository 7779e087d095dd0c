package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// CommentRepository defines the interface for blog comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID, status string) ([]*models.Comment, error)
	ListAll(ctx context.Context, status string) ([]*models.Comment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// commentRepository implements CommentRepository using PostgreSQL.
type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id, c.post_id, c.author_name, c.author_email, c.content, c.status,
	c.created_at, b.title, b.slug`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Content,
		&c.Status, &c.CreatedAt, &c.PostTitle, &c.PostSlug,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return &c, nil
}

// Create inserts a new comment. New comments always start pending.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.Status = models.CommentStatusPending
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO comments (id, post_id, author_name, author_email, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.PostID, comment.AuthorName, comment.AuthorEmail,
		comment.Content, comment.Status, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByPost returns comments on a post oldest-first, optionally filtered by status.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, status string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c
		JOIN blog_posts b ON b.id = c.post_id
		WHERE c.post_id = $1`
	args := []any{postID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	query += " ORDER BY c.created_at ASC"
	return r.queryComments(ctx, query, args...)
}

// ListAll returns all comments newest-first for the moderation queue.
func (r *commentRepository) ListAll(ctx context.Context, status string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c
		JOIN blog_posts b ON b.id = c.post_id`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += " WHERE c.status = $1"
	}
	query += " ORDER BY c.created_at DESC"
	return r.queryComments(ctx, query, args...)
}

func (r *commentRepository) queryComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateStatus moves a comment through moderation.
func (r *commentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.Exec(ctx, `UPDATE comments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a comment.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure commentRepository implements CommentRepository at compile time.
var _ CommentRepository = (*commentRepository)(nil)
