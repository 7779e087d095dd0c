package llm

import "context"

// MockChatClient is a test double that replays canned deltas.
type MockChatClient struct {
	Deltas []string
	Err    error

	// Captured request state.
	SystemPrompt string
	Messages     []Message
}

// StreamChat delivers the canned deltas, or fails with Err.
func (m *MockChatClient) StreamChat(ctx context.Context, systemPrompt string, messages []Message, onDelta func(content string) error) error {
	m.SystemPrompt = systemPrompt
	m.Messages = messages
	if m.Err != nil {
		return m.Err
	}
	for _, d := range m.Deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

// Ensure MockChatClient implements ChatClient at compile time.
var _ ChatClient = (*MockChatClient)(nil)
