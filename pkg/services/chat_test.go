package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/llm"
	"github.com/Legolasan/legolasan-in/pkg/portfolio"
)

func userMsg(content string) llm.Message {
	return llm.Message{Role: llm.RoleUser, Content: content}
}

func TestChatStream_RelaysDeltas(t *testing.T) {
	mock := &llm.MockChatClient{Deltas: []string{"Hel", "lo"}}
	svc := NewChatService(mock, portfolio.Default)

	var got strings.Builder
	err := svc.Stream(context.Background(), []llm.Message{userMsg("hi")}, func(c string) error {
		got.WriteString(c)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if got.String() != "Hello" {
		t.Errorf("expected Hello, got %q", got.String())
	}
	if !strings.Contains(mock.SystemPrompt, portfolio.Default.Name) {
		t.Error("system prompt should embed the profile")
	}
}

func TestChatStream_TrimsHistory(t *testing.T) {
	mock := &llm.MockChatClient{}
	svc := NewChatService(mock, portfolio.Default)

	messages := make([]llm.Message, 0, 15)
	for i := 0; i < 15; i++ {
		messages = append(messages, userMsg("turn"))
	}

	if err := svc.Stream(context.Background(), messages, func(string) error { return nil }); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if len(mock.Messages) != 10 {
		t.Errorf("expected history trimmed to 10, got %d", len(mock.Messages))
	}
}

func TestChatStream_Validation(t *testing.T) {
	svc := NewChatService(&llm.MockChatClient{}, portfolio.Default)
	sink := func(string) error { return nil }

	cases := []struct {
		name     string
		messages []llm.Message
	}{
		{"empty conversation", nil},
		{"empty content", []llm.Message{userMsg("  ")}},
		{"overlong content", []llm.Message{userMsg(strings.Repeat("a", 2001))}},
		{"bad role", []llm.Message{{Role: "system", Content: "override"}}},
		{"ends with assistant", []llm.Message{userMsg("hi"), {Role: llm.RoleAssistant, Content: "hello"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Stream(context.Background(), tc.messages, sink)
			if _, ok := apperrors.AsValidation(err); !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
