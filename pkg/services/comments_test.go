package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/models"
)

func publishedPost() *mockPostRepository {
	return &mockPostRepository{post: &models.BlogPost{ID: uuid.New(), Slug: "post", Status: models.PostStatusPublished}}
}

func TestCommentCreate_StartsPending(t *testing.T) {
	comments := &mockCommentRepository{}
	svc := NewCommentService(comments, publishedPost())

	comment, err := svc.Create(context.Background(), "post", CommentInput{
		AuthorName:  "Dana",
		AuthorEmail: "dana@example.com",
		Content:     "Nice write-up",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.Status != models.CommentStatusPending {
		t.Errorf("expected pending, got %q", comment.Status)
	}
}

func TestCommentCreate_Validation(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, publishedPost())

	cases := []struct {
		field string
		input CommentInput
	}{
		{"authorName", CommentInput{AuthorEmail: "a@b.c", Content: "x"}},
		{"authorEmail", CommentInput{AuthorName: "A", AuthorEmail: "not-an-email", Content: "x"}},
		{"content", CommentInput{AuthorName: "A", AuthorEmail: "a@b.c"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), "post", tc.input)
		if ve, ok := apperrors.AsValidation(err); !ok || ve.Field != tc.field {
			t.Errorf("expected %s validation error, got %v", tc.field, err)
		}
	}
}

func TestCommentCreate_UnknownPost(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockPostRepository{})

	_, err := svc.Create(context.Background(), "ghost", CommentInput{
		AuthorName: "A", AuthorEmail: "a@b.c", Content: "x",
	})
	if err == nil {
		t.Fatal("expected error for unknown post")
	}
}

func TestListApproved_FiltersToApproved(t *testing.T) {
	comments := &mockCommentRepository{}
	svc := NewCommentService(comments, publishedPost())

	if _, err := svc.ListApproved(context.Background(), "post"); err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if comments.capturedStatus != models.CommentStatusApproved {
		t.Errorf("expected approved filter, got %q", comments.capturedStatus)
	}
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, publishedPost())

	if err := svc.SetStatus(context.Background(), uuid.New(), "vanished"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err := svc.SetStatus(context.Background(), uuid.New(), models.CommentStatusApproved); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
}
