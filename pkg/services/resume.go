package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// ResumeDownloadInput is the public tracking payload.
type ResumeDownloadInput struct {
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	Company   *string `json:"company"`
	IPAddress *string `json:"-"`
}

// ResumeService defines the interface for resume download tracking.
type ResumeService interface {
	Track(ctx context.Context, input ResumeDownloadInput) (*models.ResumeDownload, error)
	List(ctx context.Context, limit int) ([]*models.ResumeDownload, error)
	Stats(ctx context.Context) (*models.ResumeDownloadStats, error)
}

// resumeService implements ResumeService.
type resumeService struct {
	repo repositories.ResumeDownloadRepository
}

// NewResumeService creates a new resume service.
func NewResumeService(repo repositories.ResumeDownloadRepository) ResumeService {
	return &resumeService{repo: repo}
}

// Track validates the email and records the download. The email domain is
// extracted once at write time so the stats queries stay flat.
func (s *resumeService) Track(ctx context.Context, input ResumeDownloadInput) (*models.ResumeDownload, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return nil, apperrors.NewValidation("email", "a valid email is required")
	}
	if utf8.RuneCountInString(email) > 200 {
		return nil, apperrors.NewValidation("email", "email must be 200 characters or less")
	}

	dl := &models.ResumeDownload{
		Email:     email,
		Name:      jsonutil.TrimmedOrNil(input.Name),
		Company:   jsonutil.TrimmedOrNil(input.Company),
		Domain:    email[at+1:],
		IPAddress: input.IPAddress,
	}
	if err := s.repo.Create(ctx, dl); err != nil {
		return nil, err
	}
	return dl, nil
}

// List returns recent downloads for the admin dashboard.
func (s *resumeService) List(ctx context.Context, limit int) ([]*models.ResumeDownload, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

// Stats summarizes download activity.
func (s *resumeService) Stats(ctx context.Context) (*models.ResumeDownloadStats, error) {
	return s.repo.Stats(ctx)
}

// Ensure resumeService implements ResumeService at compile time.
var _ ResumeService = (*resumeService)(nil)
