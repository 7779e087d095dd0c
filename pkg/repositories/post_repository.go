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

// PostFilter narrows post listings.
type PostFilter struct {
	Status       string
	CategorySlug string
	TagSlug      string
	Search       string
	Page         int
	Limit        int
}

// PostRepository defines the interface for blog post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	List(ctx context.Context, filter PostFilter) ([]*models.BlogPost, int, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetTaxonomies(ctx context.Context, postID uuid.UUID, categoryIDs, tagIDs []uuid.UUID) error
}

// postRepository implements PostRepository using PostgreSQL.
type postRepository struct {
	db *database.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *database.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	b.id, b.title, b.slug, b.content, b.excerpt, b.featured_image, b.status,
	b.author_id, u.name, b.published_at, b.created_at, b.updated_at,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = b.id AND c.status = 'approved') AS comment_count`

func scanPost(row pgx.Row) (*models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Status, &p.AuthorID, &p.AuthorName, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.CommentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

// Create inserts a new post. Returns ErrConflict when the slug is taken.
func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}

	query := `
		INSERT INTO blog_posts (id, title, slug, content, excerpt, featured_image,
			status, author_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt,
		post.FeaturedImage, post.Status, post.AuthorID, post.PublishedAt,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetBySlug retrieves a post by slug with its taxonomies attached.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := `SELECT ` + postColumns + `
		FROM blog_posts b
		LEFT JOIN users u ON u.id = b.author_id
		WHERE b.slug = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadTaxonomies(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID retrieves a post by ID with its taxonomies attached.
func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	query := `SELECT ` + postColumns + `
		FROM blog_posts b
		LEFT JOIN users u ON u.id = b.author_id
		WHERE b.id = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTaxonomies(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns posts newest-first with the total matching count for
// pagination. Published listings use published_at for ordering.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.BlogPost, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND b.status = $%d", len(args))
		if filter.Status == models.PostStatusPublished {
			where += " AND b.published_at IS NOT NULL AND b.published_at <= NOW()"
		}
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM post_categories pc
			JOIN categories cat ON cat.id = pc.category_id
			WHERE pc.post_id = b.id AND cat.slug = $%d)`, len(args))
	}
	if filter.TagSlug != "" {
		args = append(args, filter.TagSlug)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = b.id AND t.slug = $%d)`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (b.title ILIKE $%d OR b.content ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM blog_posts b" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `SELECT ` + postColumns + `
		FROM blog_posts b
		LEFT JOIN users u ON u.id = b.author_id` + where +
		" ORDER BY COALESCE(b.published_at, b.created_at) DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Page > 1 {
			args = append(args, (filter.Page-1)*filter.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, p := range posts {
		if err := r.loadTaxonomies(ctx, p); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

// Update updates a post's fields.
func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) error {
	post.UpdatedAt = time.Now()

	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, content = $4, excerpt = $5, featured_image = $6,
			status = $7, published_at = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt,
		post.FeaturedImage, post.Status, post.PublishedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a post. Comments and taxonomy links cascade.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetTaxonomies replaces the post's category and tag links.
func (r *postRepository) SetTaxonomies(ctx context.Context, postID uuid.UUID, categoryIDs, tagIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	for _, id := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`, postID, id); err != nil {
			return fmt.Errorf("failed to link category: %w", err)
		}
	}
	for _, id := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, postID, id); err != nil {
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *postRepository) loadTaxonomies(ctx context.Context, post *models.BlogPost) error {
	post.Categories = []models.Taxonomy{}
	post.Tags = []models.Taxonomy{}

	rows, err := r.db.Query(ctx, `
		SELECT cat.id, cat.name, cat.slug
		FROM categories cat
		JOIN post_categories pc ON pc.category_id = cat.id
		WHERE pc.post_id = $1
		ORDER BY cat.name`, post.ID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Taxonomy
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("failed to scan category: %w", err)
		}
		post.Categories = append(post.Categories, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`, post.ID)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var t models.Taxonomy
		if err := tagRows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		post.Tags = append(post.Tags, t)
	}
	return tagRows.Err()
}

// Ensure postRepository implements PostRepository at compile time.
var _ PostRepository = (*postRepository)(nil)
