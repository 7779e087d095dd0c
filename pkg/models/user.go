package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      string    `json:"role"` // 'admin', 'user'
	Provider  *string   `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role constants.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
