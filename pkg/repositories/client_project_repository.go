package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// ClientProjectRepository defines the interface for client project data access.
type ClientProjectRepository interface {
	Create(ctx context.Context, project *models.ClientProject) error
	GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error)
	// GetBySlugAndToken performs the single-query access gate: slug, token
	// and access_enabled must all match. A miss is ErrNotFound regardless
	// of which predicate failed.
	GetBySlugAndToken(ctx context.Context, slug, token string) (*models.ClientProject, error)
	List(ctx context.Context, status string) ([]*models.ClientProject, error)
	Update(ctx context.Context, project *models.ClientProject) error
	Delete(ctx context.Context, slug string) error
}

// clientProjectRepository implements ClientProjectRepository using PostgreSQL.
type clientProjectRepository struct {
	db *database.DB
}

// NewClientProjectRepository creates a new client project repository.
func NewClientProjectRepository(db *database.DB) ClientProjectRepository {
	return &clientProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.slug, p.name, p.description, p.github_repo, p.vercel_url,
	p.custom_domain, p.status, p.access_token, p.access_enabled,
	p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM client_feedback f WHERE f.project_id = p.id) AS feedback_count`

func scanProject(row pgx.Row) (*models.ClientProject, error) {
	var p models.ClientProject
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.GithubRepo, &p.VercelURL,
		&p.CustomDomain, &p.Status, &p.AccessToken, &p.AccessEnabled,
		&p.CreatedAt, &p.UpdatedAt, &p.FeedbackCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

// Create inserts a new project. Returns ErrConflict when the slug is taken.
func (r *clientProjectRepository) Create(ctx context.Context, project *models.ClientProject) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}

	query := `
		INSERT INTO client_projects (id, slug, name, description, github_repo, vercel_url,
			custom_domain, status, access_token, access_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.Slug, project.Name, project.Description, project.GithubRepo,
		project.VercelURL, project.CustomDomain, project.Status, project.AccessToken,
		project.AccessEnabled, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetBySlug retrieves a project by slug. Admin-only paths; enumeration is
// not a concern here.
func (r *clientProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error) {
	query := `SELECT ` + projectColumns + ` FROM client_projects p WHERE p.slug = $1`
	return scanProject(r.db.QueryRow(ctx, query, slug))
}

// GetBySlugAndToken retrieves a project only when slug and token match and
// access is enabled.
func (r *clientProjectRepository) GetBySlugAndToken(ctx context.Context, slug, token string) (*models.ClientProject, error) {
	query := `SELECT ` + projectColumns + `
		FROM client_projects p
		WHERE p.slug = $1 AND p.access_token = $2 AND p.access_enabled = true`
	return scanProject(r.db.QueryRow(ctx, query, slug, token))
}

// List returns projects newest-first, optionally filtered by status.
func (r *clientProjectRepository) List(ctx context.Context, status string) ([]*models.ClientProject, error) {
	query := `SELECT ` + projectColumns + ` FROM client_projects p`
	args := []any{}
	if status != "" {
		query += ` WHERE p.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.ClientProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update updates a project's mutable fields. The access token is never
// rewritten here; regeneration would be an explicit, separate operation.
func (r *clientProjectRepository) Update(ctx context.Context, project *models.ClientProject) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE client_projects
		SET name = $2, description = $3, github_repo = $4, vercel_url = $5,
			custom_domain = $6, status = $7, access_enabled = $8, updated_at = $9
		WHERE slug = $1`

	result, err := r.db.Exec(ctx, query,
		project.Slug, project.Name, project.Description, project.GithubRepo,
		project.VercelURL, project.CustomDomain, project.Status,
		project.AccessEnabled, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a project by slug.
// Related feedback is automatically deleted via CASCADE.
func (r *clientProjectRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM client_projects WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ensure clientProjectRepository implements ClientProjectRepository at compile time.
var _ ClientProjectRepository = (*clientProjectRepository)(nil)
