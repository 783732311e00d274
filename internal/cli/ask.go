package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/llm"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
	"github.com/rcliao/chatcore/internal/window"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask <chat-id> <message...>",
		Short: "Send a message with its context window to the model",
		Long:  "Build the context window, call the configured OpenAI-compatible endpoint, and append the prompt and response to the chat.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runAsk,
	}

	addWindowFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Do not store the exchange")

	RootCmd.AddCommand(cmd)
}

type askResult struct {
	ChatID   string         `json:"chat_id"`
	Prompt   *model.Message `json:"prompt,omitempty"`
	Response *model.Message `json:"response,omitempty"`
	Reply    llm.Reply      `json:"reply"`
	Window   *window.Window `json:"window"`
}

func runAsk(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	chatID := args[0]
	text := strings.Join(args[1:], " ")
	ctx := cmd.Context()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	req, err := windowRequest(ctx, cmd, s, chatID, text)
	if err != nil {
		exitErr("context", err)
	}
	w := window.Build(req, cfg.Estimator())

	client := llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	sent := time.Now().UTC()
	reply, err := client.Complete(ctx, w.Turns)
	if err != nil {
		exitErr("ask", err)
	}

	res := askResult{ChatID: chatID, Reply: reply, Window: w}
	if dryRun || chatID == newChatID {
		printJSON(res)
		return
	}

	res.Prompt, err = s.AppendMessage(ctx, chatID, model.Message{
		Role:      model.RolePrompt,
		Text:      text,
		Timestamp: sent,
		WordCount: textutil.CountWords(text),
	})
	if err != nil {
		exitErr("append prompt", err)
	}
	res.Response, err = s.AppendMessage(ctx, chatID, model.Message{
		Role:         model.RoleResponse,
		Text:         reply.Content,
		Timestamp:    sent.Add(time.Duration(reply.LatencyMs) * time.Millisecond),
		Status:       "sent",
		ResponseTime: reply.LatencyMs,
		WordCount:    textutil.CountWords(reply.Content),
	})
	if err != nil {
		exitErr("append response", err)
	}

	printJSON(res)
}
