package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// PageViewRepository defines the interface for analytics data access.
type PageViewRepository interface {
	Create(ctx context.Context, view *models.PageView) error
	Stats(ctx context.Context, days int) (*models.AnalyticsStats, error)
	ListMissingGeo(ctx context.Context, limit int) ([]*models.PageView, error)
	UpdateGeo(ctx context.Context, id uuid.UUID, country, city *string) error
}

// pageViewRepository implements PageViewRepository using PostgreSQL.
type pageViewRepository struct {
	db *database.DB
}

// NewPageViewRepository creates a new page view repository.
func NewPageViewRepository(db *database.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

// Create records a page view.
func (r *pageViewRepository) Create(ctx context.Context, view *models.PageView) error {
	if view.ID == uuid.Nil {
		view.ID = uuid.New()
	}
	view.CreatedAt = time.Now()

	query := `
		INSERT INTO page_views (id, page_path, referrer, user_agent, device, browser,
			os, session_id, ip_address, country, city, utm_source, utm_medium,
			utm_campaign, utm_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		view.ID, view.PagePath, view.Referrer, view.UserAgent, view.Device,
		view.Browser, view.OS, view.SessionID, view.IPAddress, view.Country,
		view.City, view.UTMSource, view.UTMMedium, view.UTMCampaign,
		view.UTMContent, view.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create page view: %w", err)
	}

	return nil
}

// Stats aggregates the dashboard numbers over the trailing day window.
func (r *pageViewRepository) Stats(ctx context.Context, days int) (*models.AnalyticsStats, error) {
	since := time.Now().AddDate(0, 0, -days)
	stats := &models.AnalyticsStats{
		TopPages:         []models.CountRow{},
		ViewsByDay:       []models.DayRow{},
		TopBrowsers:      []models.CountRow{},
		TopDevices:       []models.CountRow{},
		TopReferrers:     []models.CountRow{},
		TopCountries:     []models.CountRow{},
		VisitorLocations: []models.LocationRow{},
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT session_id)
		FROM page_views WHERE created_at >= $1`, since,
	).Scan(&stats.TotalViews, &stats.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("failed to count page views: %w", err)
	}

	var qerr error
	stats.TopPages, qerr = r.countRows(ctx, `
		SELECT page_path, COUNT(*) FROM page_views
		WHERE created_at >= $1
		GROUP BY page_path ORDER BY COUNT(*) DESC LIMIT 10`, since)
	if qerr != nil {
		return nil, qerr
	}

	rows, err := r.db.Query(ctx, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD'), COUNT(*)
		FROM page_views WHERE created_at >= $1
		GROUP BY created_at::date ORDER BY created_at::date`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query views by day: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d models.DayRow
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day row: %w", err)
		}
		stats.ViewsByDay = append(stats.ViewsByDay, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.TopBrowsers, qerr = r.countRows(ctx, `
		SELECT browser, COUNT(*) FROM page_views
		WHERE created_at >= $1 AND browser IS NOT NULL
		GROUP BY browser ORDER BY COUNT(*) DESC LIMIT 10`, since)
	if qerr != nil {
		return nil, qerr
	}

	stats.TopDevices, qerr = r.countRows(ctx, `
		SELECT device, COUNT(*) FROM page_views
		WHERE created_at >= $1 AND device IS NOT NULL
		GROUP BY device ORDER BY COUNT(*) DESC LIMIT 10`, since)
	if qerr != nil {
		return nil, qerr
	}

	stats.TopReferrers, qerr = r.countRows(ctx, `
		SELECT referrer, COUNT(*) FROM page_views
		WHERE created_at >= $1 AND referrer IS NOT NULL AND referrer <> ''
		GROUP BY referrer ORDER BY COUNT(*) DESC LIMIT 10`, since)
	if qerr != nil {
		return nil, qerr
	}

	stats.TopCountries, qerr = r.countRows(ctx, `
		SELECT country, COUNT(*) FROM page_views
		WHERE created_at >= $1 AND country IS NOT NULL
		GROUP BY country ORDER BY COUNT(*) DESC LIMIT 10`, since)
	if qerr != nil {
		return nil, qerr
	}

	locRows, err := r.db.Query(ctx, `
		SELECT country, city, COUNT(*) FROM page_views
		WHERE created_at >= $1 AND country IS NOT NULL
		GROUP BY country, city ORDER BY COUNT(*) DESC LIMIT 25`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor locations: %w", err)
	}
	defer locRows.Close()
	for locRows.Next() {
		var l models.LocationRow
		if err := locRows.Scan(&l.Country, &l.City, &l.Count); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		stats.VisitorLocations = append(stats.VisitorLocations, l)
	}
	if err := locRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *pageViewRepository) countRows(ctx context.Context, query string, args ...any) ([]models.CountRow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	items := []models.CountRow{}
	for rows.Next() {
		var c models.CountRow
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListMissingGeo returns recent views that were recorded without location,
// used by the geo backfill job.
func (r *pageViewRepository) ListMissingGeo(ctx context.Context, limit int) ([]*models.PageView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, page_path, ip_address, created_at
		FROM page_views
		WHERE country IS NULL AND ip_address IS NOT NULL
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list views missing geo: %w", err)
	}
	defer rows.Close()

	var views []*models.PageView
	for rows.Next() {
		var v models.PageView
		if err := rows.Scan(&v.ID, &v.PagePath, &v.IPAddress, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page view: %w", err)
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

// UpdateGeo fills in the location columns of a recorded view.
func (r *pageViewRepository) UpdateGeo(ctx context.Context, id uuid.UUID, country, city *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE page_views SET country = $2, city = $3 WHERE id = $1`, id, country, city)
	if err != nil {
		return fmt.Errorf("failed to update page view geo: %w", err)
	}
	return nil
}

// Ensure pageViewRepository implements PageViewRepository at compile time.
var _ PageViewRepository = (*pageViewRepository)(nil)
