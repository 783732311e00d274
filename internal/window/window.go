// Package window selects which prior chat turns accompany a new message
// to a language model under a token budget.
package window

import (
	"fmt"

	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/tokens"
)

// DefaultSystemPrompt is used when no persona prompt is supplied.
const DefaultSystemPrompt = "You are a helpful AI assistant. Provide clear, accurate, and helpful responses."

// Roles of a turn as sent to the model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Budget bounds the context window.
type Budget struct {
	MaxTokens           int `toml:"max_tokens" json:"max_tokens"`
	ReservedForResponse int `toml:"reserved_for_response" json:"reserved_for_response"`
	MinMessages         int `toml:"min_messages" json:"min_messages"`
	MaxMessages         int `toml:"max_messages" json:"max_messages"` // 0 means no cap
}

// DefaultBudget returns the budget used when none is configured.
func DefaultBudget() Budget {
	return Budget{
		MaxTokens:           4000,
		ReservedForResponse: 1000,
		MinMessages:         2,
		MaxMessages:         20,
	}
}

// Persona supplies the system prompt for a conversation.
type Persona struct {
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`
}

// Request is the input to Build.
type Request struct {
	Chat       *model.Chat // nil for a new conversation
	NewMessage string
	Persona    *Persona
	Document   string // active document content, appended to the system turn
	Budget     Budget
}

// Turn is a role-tagged message as submitted to the model.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window is the assembled context with its token accounting.
type Window struct {
	Turns         []Turn `json:"turns"`
	Available     int    `json:"available"`
	SystemTokens  int    `json:"system_tokens"`
	HistoryTokens int    `json:"history_tokens"`
	MessageTokens int    `json:"message_tokens"`
	// Forced is set when the minimum-messages override replaced the
	// budget-based selection; the window may then exceed Available.
	Forced  bool `json:"forced,omitempty"`
	Omitted int  `json:"omitted"`
}

// Used returns the estimated tokens of every turn in the window.
func (w *Window) Used() int {
	return w.SystemTokens + w.HistoryTokens + w.MessageTokens
}

// Build assembles the context window for req. It always returns at least the
// system turn and the new user turn.
func Build(req Request, est tokens.Estimator) *Window {
	system := SystemPrompt(req.Persona, req.Document)
	w := &Window{
		Available:     req.Budget.MaxTokens - req.Budget.ReservedForResponse,
		SystemTokens:  est.Estimate(system),
		MessageTokens: est.Estimate(req.NewMessage),
	}
	remaining := w.Available - w.SystemTokens - w.MessageTokens

	var history []model.Message
	if req.Chat != nil {
		history = req.Chat.Messages
	}

	// Walk newest to oldest, greedily packing into the remaining budget.
	var picked []model.Message
	used := 0
	for i := len(history) - 1; i >= 0; i-- {
		if req.Budget.MaxMessages > 0 && len(picked) >= req.Budget.MaxMessages {
			break
		}
		cost := est.Estimate(history[i].Text)
		if used+cost > remaining {
			break
		}
		picked = append(picked, history[i])
		used += cost
	}

	min := req.Budget.MinMessages
	if min > 0 && len(picked) < min && len(history) >= min {
		picked = picked[:0]
		used = 0
		for i := len(history) - 1; i >= len(history)-min; i-- {
			picked = append(picked, history[i])
			used += est.Estimate(history[i].Text)
		}
		w.Forced = true
	}

	w.HistoryTokens = used
	w.Omitted = len(history) - len(picked)

	w.Turns = make([]Turn, 0, len(picked)+2)
	w.Turns = append(w.Turns, Turn{Role: RoleSystem, Content: system})
	for i := len(picked) - 1; i >= 0; i-- {
		w.Turns = append(w.Turns, Turn{Role: roleFor(picked[i].Role), Content: picked[i].Text})
	}
	w.Turns = append(w.Turns, Turn{Role: RoleUser, Content: req.NewMessage})
	return w
}

// SystemPrompt returns the persona prompt (or the default) with the
// document block appended when doc is non-empty.
func SystemPrompt(p *Persona, doc string) string {
	prompt := DefaultSystemPrompt
	if p != nil && p.SystemPrompt != "" {
		prompt = p.SystemPrompt
	}
	if doc != "" {
		prompt += fmt.Sprintf("\n\n--- Document Content ---\n%s\n--- End of Document ---", doc)
	}
	return prompt
}

func roleFor(r model.Role) string {
	if r == model.RoleResponse {
		return RoleAssistant
	}
	return RoleUser
}
