package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// TaxonomyRepository defines the interface for category and tag data access.
// Categories and tags share a shape and differ only in table name, so a
// single repository serves both.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]models.Taxonomy, error)
	ListTags(ctx context.Context) ([]models.Taxonomy, error)
	CreateCategory(ctx context.Context, t *models.Taxonomy) error
	CreateTag(ctx context.Context, t *models.Taxonomy) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// taxonomyRepository implements TaxonomyRepository using PostgreSQL.
type taxonomyRepository struct {
	db *database.DB
}

// NewTaxonomyRepository creates a new taxonomy repository.
func NewTaxonomyRepository(db *database.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) list(ctx context.Context, table string) ([]models.Taxonomy, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, name, slug FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	items := []models.Taxonomy{}
	for rows.Next() {
		var t models.Taxonomy
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *taxonomyRepository) create(ctx context.Context, table string, t *models.Taxonomy) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3)`, table),
		t.ID, t.Name, t.Slug,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create %s entry: %w", table, err)
	}

	return nil
}

func (r *taxonomyRepository) delete(ctx context.Context, table string, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", table, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]models.Taxonomy, error) {
	return r.list(ctx, "categories")
}

func (r *taxonomyRepository) ListTags(ctx context.Context) ([]models.Taxonomy, error) {
	return r.list(ctx, "tags")
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, t *models.Taxonomy) error {
	return r.create(ctx, "categories", t)
}

func (r *taxonomyRepository) CreateTag(ctx context.Context, t *models.Taxonomy) error {
	return r.create(ctx, "tags", t)
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, "categories", id)
}

func (r *taxonomyRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, "tags", id)
}

// Ensure taxonomyRepository implements TaxonomyRepository at compile time.
var _ TaxonomyRepository = (*taxonomyRepository)(nil)
