package models

import (
	"time"

	"github.com/google/uuid"
)

// PageView is one tracked visit. Session and UTM attribution are first-touch:
// the widget sends the values captured when the session started.
type PageView struct {
	ID          uuid.UUID `json:"id"`
	PagePath    string    `json:"pagePath"`
	Referrer    *string   `json:"referrer"`
	UserAgent   *string   `json:"userAgent"`
	Device      *string   `json:"device"`
	Browser     *string   `json:"browser"`
	OS          *string   `json:"os"`
	SessionID   *string   `json:"sessionId"`
	IPAddress   *string   `json:"-"`
	Country     *string   `json:"country"`
	City        *string   `json:"city"`
	UTMSource   *string   `json:"utmSource"`
	UTMMedium   *string   `json:"utmMedium"`
	UTMCampaign *string   `json:"utmCampaign"`
	UTMContent  *string   `json:"utmContent"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CountRow is a label/count pair used by analytics aggregations.
type CountRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LocationRow is an aggregated visitor location.
type LocationRow struct {
	Country string  `json:"country"`
	City    *string `json:"city"`
	Count   int     `json:"count"`
}

// DayRow is a per-day view count.
type DayRow struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsStats is the admin dashboard aggregation over a day window.
type AnalyticsStats struct {
	TotalViews       int           `json:"totalViews"`
	UniqueVisitors   int           `json:"uniqueVisitors"`
	TopPages         []CountRow    `json:"topPages"`
	ViewsByDay       []DayRow      `json:"viewsByDay"`
	TopBrowsers      []CountRow    `json:"topBrowsers"`
	TopDevices       []CountRow    `json:"topDevices"`
	TopReferrers     []CountRow    `json:"topReferrers"`
	TopCountries     []CountRow    `json:"topCountries"`
	VisitorLocations []LocationRow `json:"visitorLocations"`
}
