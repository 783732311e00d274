// Package llm sends an assembled context window to an OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/window"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyReply is returned when the endpoint answers with no choices.
var ErrEmptyReply = errors.New("no choices in completion")

// Config configures the client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Reply is a completed response.
type Reply struct {
	Content   string `json:"content"`
	Model     string `json:"model"`
	LatencyMs int64  `json:"latency_ms"`
	// TotalTokens is as reported by the endpoint, 0 if absent.
	TotalTokens int `json:"total_tokens"`
}

// Client wraps an openai.Client.
type Client struct {
	client *openai.Client
	config Config
	now    func() time.Time
}

// NewClient creates a client. An empty API key is allowed for local endpoints.
func NewClient(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		client: openai.NewClientWithConfig(oc),
		config: cfg,
		now:    time.Now,
	}
}

// Messages converts window turns to chat completion messages.
func Messages(turns []window.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		switch t.Role {
		case window.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case window.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	return out
}

// Complete sends turns and waits for the full reply.
func (c *Client) Complete(ctx context.Context, turns []window.Turn) (Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    Messages(turns),
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	start := c.now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := c.now().Sub(start).Milliseconds()
	if err != nil {
		return Reply{}, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, ErrEmptyReply
	}

	logger.L().Debugw("completion received",
		"model", resp.Model, "latency_ms", latency, "total_tokens", resp.Usage.TotalTokens)

	return Reply{
		Content:     resp.Choices[0].Message.Content,
		Model:       resp.Model,
		LatencyMs:   latency,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}
