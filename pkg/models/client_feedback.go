package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientFeedback is a single feedback submission from the embeddable widget.
// It belongs to exactly one ClientProject and is only removed by cascading
// project deletion. Optional fields are nil when the submitter omitted them.
type ClientFeedback struct {
	ID              uuid.UUID  `json:"id"`
	ProjectID       uuid.UUID  `json:"projectId"`
	Content         string     `json:"content"`
	PageURL         string     `json:"pageUrl"`
	PagePath        string     `json:"pagePath"`
	ElementSelector *string    `json:"elementSelector"`
	ElementText     *string    `json:"elementText"`
	ElementHTML     *string    `json:"elementHtml"`
	ScreenshotData  *string    `json:"screenshotData"`
	PositionX       *int       `json:"positionX"`
	PositionY       *int       `json:"positionY"`
	ViewportWidth   *int       `json:"viewportWidth"`
	ViewportHeight  *int       `json:"viewportHeight"`
	ClientName      *string    `json:"clientName"`
	ClientEmail     *string    `json:"clientEmail"`
	IPAddress       *string    `json:"ipAddress"`
	UserAgent       *string    `json:"userAgent"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Category        *string    `json:"category"`
	AdminNotes      *string    `json:"adminNotes"`
	ResolvedAt      *time.Time `json:"resolvedAt"`
	ResolvedBy      *string    `json:"resolvedBy"`
	ProjectName     string     `json:"projectName,omitempty"`
	ProjectSlug     string     `json:"projectSlug,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Feedback status constants.
const (
	FeedbackStatusOpen       = "open"
	FeedbackStatusInProgress = "in_progress"
	FeedbackStatusResolved   = "resolved"
	FeedbackStatusArchived   = "archived"
)

// Feedback priority constants.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidFeedbackStatuses contains all valid feedback status values.
var ValidFeedbackStatuses = []string{
	FeedbackStatusOpen, FeedbackStatusInProgress, FeedbackStatusResolved, FeedbackStatusArchived,
}

// ValidPriorities contains all valid priority values.
var ValidPriorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// IsValidFeedbackStatus checks if the given status is valid.
func IsValidFeedbackStatus(status string) bool {
	for _, s := range ValidFeedbackStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPriority checks if the given priority is valid.
func IsValidPriority(priority string) bool {
	for _, p := range ValidPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// RedactedFeedback is the projection returned to token holders. It omits
// request provenance and moderation internals so an embedded widget can
// render existing feedback without exposing other submitters' details.
type RedactedFeedback struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	PageURL    string    `json:"pageUrl"`
	PagePath   string    `json:"pagePath"`
	PositionX  *int      `json:"positionX"`
	PositionY  *int      `json:"positionY"`
	ClientName *string   `json:"clientName"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Redact converts a full feedback record into its token-holder projection.
func (f *ClientFeedback) Redact() RedactedFeedback {
	return RedactedFeedback{
		ID:         f.ID,
		Content:    f.Content,
		PageURL:    f.PageURL,
		PagePath:   f.PagePath,
		PositionX:  f.PositionX,
		PositionY:  f.PositionY,
		ClientName: f.ClientName,
		Status:     f.Status,
		CreatedAt:  f.CreatedAt,
	}
}
