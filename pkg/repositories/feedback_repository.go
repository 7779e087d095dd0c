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

// FeedbackFilter narrows feedback listings. Zero values mean "no filter".
type FeedbackFilter struct {
	ProjectID uuid.UUID
	PagePath  string
	Status    string
}

// FeedbackRepository defines the interface for client feedback data access.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.ClientFeedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClientFeedback, error)
	List(ctx context.Context, filter FeedbackFilter) ([]*models.ClientFeedback, error)
	Update(ctx context.Context, feedback *models.ClientFeedback) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// feedbackRepository implements FeedbackRepository using PostgreSQL.
type feedbackRepository struct {
	db *database.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *database.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

const feedbackColumns = `
	f.id, f.project_id, f.content, f.page_url, f.page_path,
	f.element_selector, f.element_text, f.element_html, f.screenshot_data,
	f.position_x, f.position_y, f.viewport_width, f.viewport_height,
	f.client_name, f.client_email, f.ip_address, f.user_agent,
	f.status, f.priority, f.category, f.admin_notes, f.resolved_at, f.resolved_by,
	f.created_at, f.updated_at, p.name, p.slug`

func scanFeedback(row pgx.Row) (*models.ClientFeedback, error) {
	var f models.ClientFeedback
	err := row.Scan(
		&f.ID, &f.ProjectID, &f.Content, &f.PageURL, &f.PagePath,
		&f.ElementSelector, &f.ElementText, &f.ElementHTML, &f.ScreenshotData,
		&f.PositionX, &f.PositionY, &f.ViewportWidth, &f.ViewportHeight,
		&f.ClientName, &f.ClientEmail, &f.IPAddress, &f.UserAgent,
		&f.Status, &f.Priority, &f.Category, &f.AdminNotes, &f.ResolvedAt, &f.ResolvedBy,
		&f.CreatedAt, &f.UpdatedAt, &f.ProjectName, &f.ProjectSlug,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return &f, nil
}

// Create inserts a new feedback item.
func (r *feedbackRepository) Create(ctx context.Context, feedback *models.ClientFeedback) error {
	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}

	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	if feedback.Status == "" {
		feedback.Status = models.FeedbackStatusOpen
	}
	if feedback.Priority == "" {
		feedback.Priority = models.PriorityNormal
	}

	query := `
		INSERT INTO client_feedback (id, project_id, content, page_url, page_path,
			element_selector, element_text, element_html, screenshot_data,
			position_x, position_y, viewport_width, viewport_height,
			client_name, client_email, ip_address, user_agent,
			status, priority, category, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := r.db.Exec(ctx, query,
		feedback.ID, feedback.ProjectID, feedback.Content, feedback.PageURL,
		feedback.PagePath, feedback.ElementSelector, feedback.ElementText,
		feedback.ElementHTML, feedback.ScreenshotData, feedback.PositionX,
		feedback.PositionY, feedback.ViewportWidth, feedback.ViewportHeight,
		feedback.ClientName, feedback.ClientEmail, feedback.IPAddress,
		feedback.UserAgent, feedback.Status, feedback.Priority, feedback.Category,
		feedback.AdminNotes, feedback.CreatedAt, feedback.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves a feedback item by ID.
func (r *feedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientFeedback, error) {
	query := `SELECT ` + feedbackColumns + `
		FROM client_feedback f
		JOIN client_projects p ON p.id = f.project_id
		WHERE f.id = $1`
	return scanFeedback(r.db.QueryRow(ctx, query, id))
}

// List returns feedback newest-first, applying any non-zero filters.
func (r *feedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]*models.ClientFeedback, error) {
	query := `SELECT ` + feedbackColumns + `
		FROM client_feedback f
		JOIN client_projects p ON p.id = f.project_id
		WHERE 1=1`
	args := []any{}

	if filter.ProjectID != uuid.Nil {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND f.project_id = $%d", len(args))
	}
	if filter.PagePath != "" {
		args = append(args, filter.PagePath)
		query += fmt.Sprintf(" AND f.page_path = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND f.status = $%d", len(args))
	}
	query += " ORDER BY f.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []*models.ClientFeedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// Update persists the moderation fields of a feedback item. Ingestion
// fields (content, position, element capture) are immutable after create.
func (r *feedbackRepository) Update(ctx context.Context, feedback *models.ClientFeedback) error {
	feedback.UpdatedAt = time.Now()

	query := `
		UPDATE client_feedback
		SET status = $2, priority = $3, category = $4, admin_notes = $5,
			resolved_at = $6, resolved_by = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		feedback.ID, feedback.Status, feedback.Priority, feedback.Category,
		feedback.AdminNotes, feedback.ResolvedAt, feedback.ResolvedBy,
		feedback.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a feedback item by ID.
func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM client_feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure feedbackRepository implements FeedbackRepository at compile time.
var _ FeedbackRepository = (*feedbackRepository)(nil)
