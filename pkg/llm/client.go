// Package llm provides the OpenAI-backed chat client for the site assistant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatClient streams assistant replies. Implemented by Client; tests swap
// in a mock.
type ChatClient interface {
	// StreamChat sends the conversation and invokes onDelta for every
	// content fragment as it arrives.
	StreamChat(ctx context.Context, systemPrompt string, messages []Message, onDelta func(content string) error) error
}

// Config holds configuration for creating an LLM client.
type Config struct {
	APIKey      string
	BaseURL     string // empty keeps the OpenAI default
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client wraps the OpenAI API for streaming chat completions.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new OpenAI chat client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("llm"),
	}, nil
}

// StreamChat streams a chat completion, delivering content deltas to
// onDelta in arrival order. Returning an error from onDelta aborts the
// stream.
func (c *Client) StreamChat(ctx context.Context, systemPrompt string, messages []Message, onDelta func(content string) error) error {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to open chat stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("chat stream failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := onDelta(delta); err != nil {
			return err
		}
	}

	c.logger.Debug("chat stream complete",
		zap.String("model", c.model),
		zap.Int("turns", len(messages)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// ValidRole reports whether role is one a client may send.
func ValidRole(role string) bool {
	role = strings.ToLower(role)
	return role == RoleUser || role == RoleAssistant
}

// Ensure Client implements ChatClient at compile time.
var _ ChatClient = (*Client)(nil)
