package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mileusna/useragent"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/geoip"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// utmScrub strips anything outside the characters real campaign tools emit.
// UTM values land in the dashboard unescaped, so they are sanitized on the
// way in rather than trusted on the way out.
var utmScrub = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

const (
	maxTrackPathLen = 500
	maxUTMLen       = 100
)

// TrackInput is the visitor tracking payload.
type TrackInput struct {
	PagePath    string  `json:"pagePath"`
	Referrer    *string `json:"referrer"`
	SessionID   *string `json:"sessionId"`
	UTMSource   *string `json:"utmSource"`
	UTMMedium   *string `json:"utmMedium"`
	UTMCampaign *string `json:"utmCampaign"`
	UTMContent  *string `json:"utmContent"`
	UserAgent   string  `json:"-"`
	IPAddress   string  `json:"-"`
}

// AnalyticsService defines the interface for page view tracking and stats.
type AnalyticsService interface {
	Track(ctx context.Context, input TrackInput) error
	Stats(ctx context.Context, days int) (*models.AnalyticsStats, error)
	// BackfillGeo re-resolves location for recent views recorded without
	// one and returns how many rows were updated.
	BackfillGeo(ctx context.Context, limit int) (int, error)
}

// analyticsService implements AnalyticsService.
type analyticsService struct {
	views  repositories.PageViewRepository
	geo    *geoip.Service
	logger *zap.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(views repositories.PageViewRepository, geo *geoip.Service, logger *zap.Logger) AnalyticsService {
	return &analyticsService{views: views, geo: geo, logger: logger}
}

// Track records a page view. The user agent is parsed server-side and the
// visitor's location is looked up best-effort; a failed lookup records the
// view with empty location rather than failing the request.
func (s *analyticsService) Track(ctx context.Context, input TrackInput) error {
	pagePath := strings.TrimSpace(input.PagePath)
	if pagePath == "" {
		return apperrors.NewValidation("pagePath", "pagePath is required")
	}
	// Truncate on rune boundaries so a multibyte path never turns into
	// invalid UTF-8 on the way to storage.
	if utf8.RuneCountInString(pagePath) > maxTrackPathLen {
		pagePath = string([]rune(pagePath)[:maxTrackPathLen])
	}

	view := &models.PageView{
		PagePath:    pagePath,
		Referrer:    jsonutil.TrimmedOrNil(input.Referrer),
		SessionID:   jsonutil.TrimmedOrNil(input.SessionID),
		UTMSource:   sanitizeUTM(input.UTMSource),
		UTMMedium:   sanitizeUTM(input.UTMMedium),
		UTMCampaign: sanitizeUTM(input.UTMCampaign),
		UTMContent:  sanitizeUTM(input.UTMContent),
	}

	if ua := strings.TrimSpace(input.UserAgent); ua != "" {
		view.UserAgent = &ua
		parsed := useragent.Parse(ua)
		if parsed.Name != "" {
			view.Browser = &parsed.Name
		}
		if parsed.OS != "" {
			view.OS = &parsed.OS
		}
		device := deviceKind(parsed)
		view.Device = &device
	}

	if ip := strings.TrimSpace(input.IPAddress); ip != "" {
		view.IPAddress = &ip
	}
	loc := s.geo.Lookup(ctx, input.IPAddress)
	view.Country = loc.Country
	view.City = loc.City

	return s.views.Create(ctx, view)
}

// Stats aggregates the dashboard numbers over the trailing day window.
func (s *analyticsService) Stats(ctx context.Context, days int) (*models.AnalyticsStats, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	return s.views.Stats(ctx, days)
}

// BackfillGeo re-resolves location for views missing one. Views whose IP is
// no longer resolvable stay as they are.
func (s *analyticsService) BackfillGeo(ctx context.Context, limit int) (int, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	views, err := s.views.ListMissingGeo(ctx, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, v := range views {
		if v.IPAddress == nil {
			continue
		}
		loc := s.geo.Lookup(ctx, *v.IPAddress)
		if loc.Country == nil {
			continue
		}
		if err := s.views.UpdateGeo(ctx, v.ID, loc.Country, loc.City); err != nil {
			s.logger.Warn("geo backfill update failed", zap.String("view_id", v.ID.String()), zap.Error(err))
			continue
		}
		updated++
	}
	return updated, nil
}

func sanitizeUTM(v *string) *string {
	if v == nil {
		return nil
	}
	clean := utmScrub.ReplaceAllString(strings.TrimSpace(*v), "")
	if len(clean) > maxUTMLen {
		clean = clean[:maxUTMLen]
	}
	if clean == "" {
		return nil
	}
	return &clean
}

func deviceKind(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}

// Ensure analyticsService implements AnalyticsService at compile time.
var _ AnalyticsService = (*analyticsService)(nil)
