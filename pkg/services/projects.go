package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// slugPattern is the only accepted shape for project slugs. Slugs end up in
// widget embed URLs, so anything outside lowercase-kebab is rejected.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ProjectInput carries the client-supplied fields for create and update.
type ProjectInput struct {
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	GithubRepo    *string `json:"githubRepo"`
	VercelURL     *string `json:"vercelUrl"`
	CustomDomain  *string `json:"customDomain"`
	Status        string  `json:"status"`
	AccessEnabled *bool   `json:"accessEnabled"`
}

// ProjectService defines the interface for client project operations.
type ProjectService interface {
	Create(ctx context.Context, input ProjectInput) (*models.ClientProject, error)
	GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error)
	List(ctx context.Context, status string) ([]*models.ClientProject, error)
	Update(ctx context.Context, slug string, input ProjectInput) (*models.ClientProject, error)
	Delete(ctx context.Context, slug string) error
}

// projectService implements ProjectService.
type projectService struct {
	repo repositories.ClientProjectRepository
}

// NewProjectService creates a new project service.
func NewProjectService(repo repositories.ClientProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

// Create validates the input, generates the access token and stores the
// project. The token is only ever generated here; updates never touch it.
func (s *projectService) Create(ctx context.Context, input ProjectInput) (*models.ClientProject, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)

	if slug == "" {
		return nil, apperrors.NewValidation("slug", "slug is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperrors.NewValidation("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}
	if utf8.RuneCountInString(slug) > 100 {
		return nil, apperrors.NewValidation("slug", "slug must be 100 characters or less")
	}
	if name == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return nil, apperrors.NewValidation("name", "name must be 200 characters or less")
	}
	if err := validateProjectOptionals(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !models.IsValidProjectStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid project status")
	}

	token, err := generateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	project := &models.ClientProject{
		Slug:          slug,
		Name:          name,
		Description:   jsonutil.TrimmedOrNil(input.Description),
		GithubRepo:    jsonutil.TrimmedOrNil(input.GithubRepo),
		VercelURL:     jsonutil.TrimmedOrNil(input.VercelURL),
		CustomDomain:  jsonutil.TrimmedOrNil(input.CustomDomain),
		Status:        status,
		AccessToken:   token,
		AccessEnabled: true,
	}
	if input.AccessEnabled != nil {
		project.AccessEnabled = *input.AccessEnabled
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetBySlug returns a project for the admin dashboard.
func (s *projectService) GetBySlug(ctx context.Context, slug string) (*models.ClientProject, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// List returns projects, optionally filtered by status.
func (s *projectService) List(ctx context.Context, status string) ([]*models.ClientProject, error) {
	if status != "" && !models.IsValidProjectStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid project status")
	}
	return s.repo.List(ctx, status)
}

// Update applies the mutable fields to an existing project. The slug in the
// URL wins; slugs are immutable after creation.
func (s *projectService) Update(ctx context.Context, slug string, input ProjectInput) (*models.ClientProject, error) {
	project, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if utf8.RuneCountInString(name) > 200 {
			return nil, apperrors.NewValidation("name", "name must be 200 characters or less")
		}
		project.Name = name
	}
	if err := validateProjectOptionals(input); err != nil {
		return nil, err
	}
	if input.Description != nil {
		project.Description = jsonutil.TrimmedOrNil(input.Description)
	}
	if input.GithubRepo != nil {
		project.GithubRepo = jsonutil.TrimmedOrNil(input.GithubRepo)
	}
	if input.VercelURL != nil {
		project.VercelURL = jsonutil.TrimmedOrNil(input.VercelURL)
	}
	if input.CustomDomain != nil {
		project.CustomDomain = jsonutil.TrimmedOrNil(input.CustomDomain)
	}
	if input.Status != "" {
		if !models.IsValidProjectStatus(input.Status) {
			return nil, apperrors.NewValidation("status", "invalid project status")
		}
		project.Status = input.Status
	}
	if input.AccessEnabled != nil {
		project.AccessEnabled = *input.AccessEnabled
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and, through the schema, all of its feedback.
func (s *projectService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func validateProjectOptionals(input ProjectInput) error {
	checks := []struct {
		field string
		value *string
		max   int
	}{
		{"description", input.Description, 10000},
		{"githubRepo", input.GithubRepo, 500},
		{"vercelUrl", input.VercelURL, 500},
		{"customDomain", input.CustomDomain, 200},
	}
	for _, c := range checks {
		if c.value != nil && utf8.RuneCountInString(strings.TrimSpace(*c.value)) > c.max {
			return apperrors.NewValidation(c.field,
				fmt.Sprintf("%s must be %d characters or less", c.field, c.max))
		}
	}
	return nil
}

// generateAccessToken returns 32 random bytes hex-encoded.
func generateAccessToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
