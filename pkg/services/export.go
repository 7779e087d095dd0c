package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Legolasan/legolasan-in/pkg/jsonutil"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
)

// exportColumns is the fixed CSV header. Consumers build spreadsheets on
// this order; do not reorder.
var exportColumns = []string{
	"ID", "Date", "Status", "Priority", "Category", "Client Name",
	"Client Email", "Page Path", "Page URL", "Element Selector",
	"Element Text", "Content", "Position X", "Position Y",
	"Viewport Width", "Viewport Height", "IP Address", "Admin Notes",
	"Resolved At", "Resolved By",
}

// ExportService defines the interface for feedback CSV export.
type ExportService interface {
	// WriteCSV streams all feedback for the project identified by slug as
	// RFC 4180 CSV and returns the suggested download filename.
	WriteCSV(ctx context.Context, w io.Writer, projectSlug string) (string, error)
}

// exportService implements ExportService.
type exportService struct {
	feedback repositories.FeedbackRepository
	projects repositories.ClientProjectRepository
	now      func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(feedback repositories.FeedbackRepository, projects repositories.ClientProjectRepository) ExportService {
	return &exportService{feedback: feedback, projects: projects, now: time.Now}
}

// WriteCSV writes the header and one row per feedback item, newest first.
func (s *exportService) WriteCSV(ctx context.Context, w io.Writer, projectSlug string) (string, error) {
	project, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		return "", err
	}

	items, err := s.feedback.List(ctx, repositories.FeedbackFilter{ProjectID: project.ID})
	if err != nil {
		return "", err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, f := range items {
		if err := cw.Write(exportRow(f)); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	filename := fmt.Sprintf("feedback-%s-%s.csv", project.Slug, s.now().Format("2006-01-02"))
	return filename, nil
}

func exportRow(f *models.ClientFeedback) []string {
	return []string{
		f.ID.String(),
		f.CreatedAt.Format(time.RFC3339),
		f.Status,
		f.Priority,
		jsonutil.Deref(f.Category),
		jsonutil.Deref(f.ClientName),
		jsonutil.Deref(f.ClientEmail),
		f.PagePath,
		f.PageURL,
		jsonutil.Deref(f.ElementSelector),
		jsonutil.Deref(f.ElementText),
		f.Content,
		intOrEmpty(f.PositionX),
		intOrEmpty(f.PositionY),
		intOrEmpty(f.ViewportWidth),
		intOrEmpty(f.ViewportHeight),
		jsonutil.Deref(f.IPAddress),
		jsonutil.Deref(f.AdminNotes),
		timeOrEmpty(f.ResolvedAt),
		jsonutil.Deref(f.ResolvedBy),
	}
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Ensure exportService implements ExportService at compile time.
var _ ExportService = (*exportService)(nil)
