package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// ResumeDownloadRepository defines the interface for resume download tracking.
type ResumeDownloadRepository interface {
	Create(ctx context.Context, dl *models.ResumeDownload) error
	List(ctx context.Context, limit int) ([]*models.ResumeDownload, error)
	Stats(ctx context.Context) (*models.ResumeDownloadStats, error)
}

// resumeDownloadRepository implements ResumeDownloadRepository using PostgreSQL.
type resumeDownloadRepository struct {
	db *database.DB
}

// NewResumeDownloadRepository creates a new resume download repository.
func NewResumeDownloadRepository(db *database.DB) ResumeDownloadRepository {
	return &resumeDownloadRepository{db: db}
}

// Create records a resume download.
func (r *resumeDownloadRepository) Create(ctx context.Context, dl *models.ResumeDownload) error {
	if dl.ID == uuid.Nil {
		dl.ID = uuid.New()
	}
	dl.CreatedAt = time.Now()

	query := `
		INSERT INTO resume_downloads (id, email, name, company, domain, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		dl.ID, dl.Email, dl.Name, dl.Company, dl.Domain, dl.IPAddress, dl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume download: %w", err)
	}

	return nil
}

// List returns downloads newest-first.
func (r *resumeDownloadRepository) List(ctx context.Context, limit int) ([]*models.ResumeDownload, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, name, company, domain, ip_address, created_at
		FROM resume_downloads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume downloads: %w", err)
	}
	defer rows.Close()

	var items []*models.ResumeDownload
	for rows.Next() {
		var d models.ResumeDownload
		if err := rows.Scan(&d.ID, &d.Email, &d.Name, &d.Company, &d.Domain, &d.IPAddress, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume download: %w", err)
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}

// Stats summarizes download activity.
func (r *resumeDownloadRepository) Stats(ctx context.Context) (*models.ResumeDownloadStats, error) {
	stats := &models.ResumeDownloadStats{TopDomains: []models.CountRow{}}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT domain),
			COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days')
		FROM resume_downloads`,
	).Scan(&stats.Total, &stats.UniqueDomains, &stats.Last7Days)
	if err != nil {
		return nil, fmt.Errorf("failed to count resume downloads: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT domain, COUNT(*) FROM resume_downloads
		GROUP BY domain ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top domains: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.CountRow
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan domain row: %w", err)
		}
		stats.TopDomains = append(stats.TopDomains, c)
	}
	return stats, rows.Err()
}

// Ensure resumeDownloadRepository implements ResumeDownloadRepository at compile time.
var _ ResumeDownloadRepository = (*resumeDownloadRepository)(nil)
