package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatcore/internal/window"
)

func TestMessagesMapsRoles(t *testing.T) {
	msgs := Messages([]window.Turn{
		{Role: window.RoleSystem, Content: "sys"},
		{Role: window.RoleUser, Content: "hi"},
		{Role: window.RoleAssistant, Content: "hello"},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	assert.Equal(t, "hello", msgs[2].Content)
}

func newServer(t *testing.T, handler func(req openai.ChatCompletionRequest) openai.ChatCompletionResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(handler(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteReturnsContent(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := newServer(t, func(req openai.ChatCompletionRequest) openai.ChatCompletionResponse {
		got = req
		return openai.ChatCompletionResponse{
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "pong"}},
			},
			Usage: openai.Usage{TotalTokens: 12},
		}
	})

	c := NewClient(Config{BaseURL: srv.URL, MaxTokens: 50})
	reply, err := c.Complete(context.Background(), []window.Turn{
		{Role: window.RoleSystem, Content: window.DefaultSystemPrompt},
		{Role: window.RoleUser, Content: "ping"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", reply.Content)
	assert.Equal(t, DefaultModel, reply.Model)
	assert.Equal(t, 12, reply.TotalTokens)
	assert.GreaterOrEqual(t, reply.LatencyMs, int64(0))

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 50, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "ping", got.Messages[1].Content)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := newServer(t, func(req openai.ChatCompletionRequest) openai.ChatCompletionResponse {
		return openai.ChatCompletionResponse{}
	})
	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), []window.Turn{{Role: window.RoleUser, Content: "x"}})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), []window.Turn{{Role: window.RoleUser, Content: "x"}})
	assert.Error(t, err)
}
