// Package models contains domain types for legolasan-in.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientProject is the tenant boundary for collected feedback. Any holder of
// the project's access token may submit feedback while AccessEnabled is true.
type ClientProject struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	GithubRepo    *string   `json:"githubRepo"`
	VercelURL     *string   `json:"vercelUrl"`
	CustomDomain  *string   `json:"customDomain"`
	Status        string    `json:"status"`
	AccessToken   string    `json:"accessToken"`
	AccessEnabled bool      `json:"accessEnabled"`
	FeedbackCount int       `json:"feedbackCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Project status constants.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// ValidProjectStatuses contains all valid project status values.
var ValidProjectStatuses = []string{ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived}

// IsValidProjectStatus checks if the given status is valid.
func IsValidProjectStatus(status string) bool {
	for _, s := range ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}
