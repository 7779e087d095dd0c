package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeDownload records who pulled the resume and from which email domain.
type ResumeDownload struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Company   *string   `json:"company"`
	Domain    string    `json:"domain"`
	IPAddress *string   `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResumeDownloadStats summarizes download activity for the admin dashboard.
type ResumeDownloadStats struct {
	Total         int        `json:"total"`
	UniqueDomains int        `json:"uniqueDomains"`
	Last7Days     int        `json:"last7Days"`
	TopDomains    []CountRow `json:"topDomains"`
}
