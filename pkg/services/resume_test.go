package services

import (
	"context"
	"testing"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
)

func TestResumeTrack_ExtractsDomain(t *testing.T) {
	repo := &mockResumeRepository{}
	svc := NewResumeService(repo)

	dl, err := svc.Track(context.Background(), ResumeDownloadInput{Email: "  Recruiter@BigCorp.COM "})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if dl.Email != "recruiter@bigcorp.com" {
		t.Errorf("expected lowercased email, got %q", dl.Email)
	}
	if dl.Domain != "bigcorp.com" {
		t.Errorf("expected domain bigcorp.com, got %q", dl.Domain)
	}
}

func TestResumeTrack_RejectsBadEmail(t *testing.T) {
	svc := NewResumeService(&mockResumeRepository{})

	for _, email := range []string{"", "no-at-sign", "@leading", "trailing@"} {
		_, err := svc.Track(context.Background(), ResumeDownloadInput{Email: email})
		if _, ok := apperrors.AsValidation(err); !ok {
			t.Errorf("email %q: expected validation error, got %v", email, err)
		}
	}
}
