package services

import (
	"context"
	"strings"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/llm"
	"github.com/Legolasan/legolasan-in/pkg/portfolio"
)

// maxChatHistory bounds how much conversation is forwarded upstream. Older
// turns are dropped, newest kept.
const maxChatHistory = 10

// ChatService defines the interface for the portfolio chat assistant.
type ChatService interface {
	// Stream validates the conversation and streams the assistant reply
	// through onDelta.
	Stream(ctx context.Context, messages []llm.Message, onDelta func(content string) error) error
}

// chatService implements ChatService.
type chatService struct {
	client  llm.ChatClient
	profile portfolio.Profile
}

// NewChatService creates a new chat service.
func NewChatService(client llm.ChatClient, profile portfolio.Profile) ChatService {
	return &chatService{client: client, profile: profile}
}

// Stream trims the history to the last turns, validates roles and content,
// and relays the upstream stream.
func (s *chatService) Stream(ctx context.Context, messages []llm.Message, onDelta func(content string) error) error {
	if len(messages) == 0 {
		return apperrors.NewValidation("messages", "messages are required")
	}
	if len(messages) > maxChatHistory {
		messages = messages[len(messages)-maxChatHistory:]
	}

	cleaned := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return apperrors.NewValidation("messages", "message content must not be empty")
		}
		if len(content) > 2000 {
			return apperrors.NewValidation("messages", "message content must be 2000 characters or less")
		}
		if !llm.ValidRole(m.Role) {
			return apperrors.NewValidation("messages", "message role must be user or assistant")
		}
		cleaned = append(cleaned, llm.Message{Role: strings.ToLower(m.Role), Content: content})
	}
	if cleaned[len(cleaned)-1].Role != llm.RoleUser {
		return apperrors.NewValidation("messages", "last message must be from the user")
	}

	return s.client.StreamChat(ctx, s.profile.SystemPrompt(), cleaned, onDelta)
}

// Ensure chatService implements ChatService at compile time.
var _ ChatService = (*chatService)(nil)
