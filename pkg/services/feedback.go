package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// Feedback field caps, in characters rather than bytes so multibyte content
// gets the full allowance. Values arrive trimmed before these are checked
// and are stored trimmed.
const (
	maxContentLen         = 10000
	maxPageURLLen         = 1000
	maxPagePathLen        = 500
	maxElementSelectorLen = 500
	maxElementTextLen     = 10000
	maxElementHTMLLen     = 10000
	maxClientNameLen      = 100
	maxClientEmailLen     = 200
	maxCategoryLen        = 100
	maxAdminNotesLen      = 10000
)

// FeedbackInput is the widget submission payload.
type FeedbackInput struct {
	Content         string  `json:"content"`
	PageURL         string  `json:"pageUrl"`
	PagePath        string  `json:"pagePath"`
	ElementSelector *string `json:"elementSelector"`
	ElementText     *string `json:"elementText"`
	ElementHTML     *string `json:"elementHtml"`
	ScreenshotData  *string `json:"screenshotData"`
	PositionX       *int    `json:"positionX"`
	PositionY       *int    `json:"positionY"`
	ViewportWidth   *int    `json:"viewportWidth"`
	ViewportHeight  *int    `json:"viewportHeight"`
	ClientName      *string `json:"clientName"`
	ClientEmail     *string `json:"clientEmail"`
	IPAddress       *string `json:"-"`
	UserAgent       *string `json:"-"`
}

// FeedbackUpdate carries the admin moderation fields. Pointer fields
// distinguish "leave unchanged" from "set".
type FeedbackUpdate struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	Category   *string `json:"category"`
	AdminNotes *string `json:"adminNotes"`
}

// FeedbackService defines the interface for client feedback operations.
type FeedbackService interface {
	// ResolveTokenHolder runs the access-token gate for widget callers.
	ResolveTokenHolder(ctx context.Context, slug, token string) (*models.ClientProject, error)
	Submit(ctx context.Context, project *models.ClientProject, input FeedbackInput) (*models.ClientFeedback, error)
	// ListForCaller returns full records for admins and the redacted
	// projection for token holders.
	ListForCaller(ctx context.Context, caller auth.Caller, pagePath, status string) (any, error)
	ListForAdmin(ctx context.Context, projectSlug, pagePath, status string) ([]*models.ClientFeedback, error)
	Update(ctx context.Context, id uuid.UUID, update FeedbackUpdate, actor string) (*models.ClientFeedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// feedbackService implements FeedbackService.
type feedbackService struct {
	feedback repositories.FeedbackRepository
	projects repositories.ClientProjectRepository
	now      func() time.Time
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedback repositories.FeedbackRepository, projects repositories.ClientProjectRepository) FeedbackService {
	return &feedbackService{feedback: feedback, projects: projects, now: time.Now}
}

// ResolveTokenHolder matches slug, token and access_enabled in one lookup.
// Any miss collapses to ErrUnauthorized so a caller probing slugs learns
// nothing about which predicate failed.
func (s *feedbackService) ResolveTokenHolder(ctx context.Context, slug, token string) (*models.ClientProject, error) {
	slug = strings.TrimSpace(slug)
	token = strings.TrimSpace(token)
	if slug == "" || token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	project, err := s.projects.GetBySlugAndToken(ctx, slug, token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return project, nil
}

// Submit validates and stores a widget submission for the given project.
func (s *feedbackService) Submit(ctx context.Context, project *models.ClientProject, input FeedbackInput) (*models.ClientFeedback, error) {
	content := strings.TrimSpace(input.Content)
	pageURL := strings.TrimSpace(input.PageURL)
	pagePath := strings.TrimSpace(input.PagePath)

	if content == "" {
		return nil, apperrors.NewValidation("content", "content is required")
	}
	if pageURL == "" {
		return nil, apperrors.NewValidation("pageUrl", "pageUrl is required")
	}
	if pagePath == "" {
		return nil, apperrors.NewValidation("pagePath", "pagePath is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, capError("content", maxContentLen)
	}
	if utf8.RuneCountInString(pageURL) > maxPageURLLen {
		return nil, capError("pageUrl", maxPageURLLen)
	}
	if utf8.RuneCountInString(pagePath) > maxPagePathLen {
		return nil, capError("pagePath", maxPagePathLen)
	}

	optionals := []struct {
		field string
		value *string
		max   int
	}{
		{"elementSelector", input.ElementSelector, maxElementSelectorLen},
		{"elementText", input.ElementText, maxElementTextLen},
		{"elementHtml", input.ElementHTML, maxElementHTMLLen},
		{"clientName", input.ClientName, maxClientNameLen},
		{"clientEmail", input.ClientEmail, maxClientEmailLen},
	}
	for _, o := range optionals {
		if o.value != nil && utf8.RuneCountInString(strings.TrimSpace(*o.value)) > o.max {
			return nil, capError(o.field, o.max)
		}
	}

	feedback := &models.ClientFeedback{
		ProjectID:       project.ID,
		Content:         content,
		PageURL:         pageURL,
		PagePath:        pagePath,
		ElementSelector: jsonutil.TrimmedOrNil(input.ElementSelector),
		ElementText:     jsonutil.TrimmedOrNil(input.ElementText),
		ElementHTML:     jsonutil.TrimmedOrNil(input.ElementHTML),
		// Screenshot data is stored as received. It is only ever rendered
		// in the admin dashboard.
		ScreenshotData: input.ScreenshotData,
		PositionX:      input.PositionX,
		PositionY:      input.PositionY,
		ViewportWidth:  input.ViewportWidth,
		ViewportHeight: input.ViewportHeight,
		ClientName:     jsonutil.TrimmedOrNil(input.ClientName),
		ClientEmail:    jsonutil.TrimmedOrNil(input.ClientEmail),
		IPAddress:      input.IPAddress,
		UserAgent:      input.UserAgent,
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListForCaller dispatches on the caller kind. Token holders get the
// redacted projection scoped to their own project; admins get everything.
func (s *feedbackService) ListForCaller(ctx context.Context, caller auth.Caller, pagePath, status string) (any, error) {
	switch caller.Kind {
	case auth.CallerAdmin:
		items, err := s.list(ctx, uuid.Nil, pagePath, status)
		if err != nil {
			return nil, err
		}
		return items, nil
	case auth.CallerTokenHolder:
		items, err := s.list(ctx, caller.Project.ID, pagePath, status)
		if err != nil {
			return nil, err
		}
		redacted := make([]models.RedactedFeedback, 0, len(items))
		for _, f := range items {
			redacted = append(redacted, f.Redact())
		}
		return redacted, nil
	default:
		return nil, apperrors.ErrUnauthorized
	}
}

// ListForAdmin lists feedback with an optional project slug scope.
func (s *feedbackService) ListForAdmin(ctx context.Context, projectSlug, pagePath, status string) ([]*models.ClientFeedback, error) {
	projectID := uuid.Nil
	if projectSlug != "" {
		project, err := s.projects.GetBySlug(ctx, projectSlug)
		if err != nil {
			return nil, err
		}
		projectID = project.ID
	}
	return s.list(ctx, projectID, pagePath, status)
}

func (s *feedbackService) list(ctx context.Context, projectID uuid.UUID, pagePath, status string) ([]*models.ClientFeedback, error) {
	if status != "" && !models.IsValidFeedbackStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid feedback status")
	}
	return s.feedback.List(ctx, repositories.FeedbackFilter{
		ProjectID: projectID,
		PagePath:  pagePath,
		Status:    status,
	})
}

// Update applies moderation changes. Entering resolved from any other state
// stamps resolved_at and resolved_by; re-saving an already resolved item
// leaves the stamps alone, and leaving then returning stamps anew.
func (s *feedbackService) Update(ctx context.Context, id uuid.UUID, update FeedbackUpdate, actor string) (*models.ClientFeedback, error) {
	feedback, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		status := strings.TrimSpace(*update.Status)
		if !models.IsValidFeedbackStatus(status) {
			return nil, apperrors.NewValidation("status", "invalid feedback status")
		}
		if status == models.FeedbackStatusResolved && feedback.Status != models.FeedbackStatusResolved {
			now := s.now()
			feedback.ResolvedAt = &now
			feedback.ResolvedBy = &actor
		}
		if status != models.FeedbackStatusResolved {
			feedback.ResolvedAt = nil
			feedback.ResolvedBy = nil
		}
		feedback.Status = status
	}
	if update.Priority != nil {
		priority := strings.TrimSpace(*update.Priority)
		if !models.IsValidPriority(priority) {
			return nil, apperrors.NewValidation("priority", "invalid priority")
		}
		feedback.Priority = priority
	}
	if update.Category != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*update.Category)) > maxCategoryLen {
			return nil, capError("category", maxCategoryLen)
		}
		feedback.Category = jsonutil.TrimmedOrNil(update.Category)
	}
	if update.AdminNotes != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*update.AdminNotes)) > maxAdminNotesLen {
			return nil, capError("adminNotes", maxAdminNotesLen)
		}
		feedback.AdminNotes = jsonutil.TrimmedOrNil(update.AdminNotes)
	}

	if err := s.feedback.Update(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Delete removes a feedback item.
func (s *feedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.feedback.Delete(ctx, id)
}

func capError(field string, max int) error {
	return apperrors.NewValidation(field, fmt.Sprintf("%s must be %d characters or less", field, max))
}

// Ensure feedbackService implements FeedbackService at compile time.
var _ FeedbackService = (*feedbackService)(nil)
