package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is a CMS article. Only published posts with a publication date in
// the past are visible to anonymous readers.
type BlogPost struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	FeaturedImage *string    `json:"featuredImage"`
	Status        string     `json:"status"`
	AuthorID      uuid.UUID  `json:"authorId"`
	AuthorName    *string    `json:"authorName,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Categories    []Taxonomy `json:"categories"`
	Tags          []Taxonomy `json:"tags"`
	CommentCount  int        `json:"commentCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Post status constants.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Taxonomy is a category or tag attached to posts.
type Taxonomy struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Comment is an anonymous reader comment awaiting moderation.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"postId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	PostTitle   string    `json:"postTitle,omitempty"`
	PostSlug    string    `json:"postSlug,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment status constants.
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// ValidCommentStatuses contains all valid comment status values.
var ValidCommentStatuses = []string{CommentStatusPending, CommentStatusApproved, CommentStatusRejected}

// IsValidCommentStatus checks if the given status is valid.
func IsValidCommentStatus(status string) bool {
	for _, s := range ValidCommentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
