package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/config"
	"github.com/rcliao/chatcore/internal/store"
	"github.com/rcliao/chatcore/internal/window"
)

// newChatID selects an empty history in context and ask.
const newChatID = "-"

func init() {
	cmd := &cobra.Command{
		Use:   "context <chat-id> <message...>",
		Short: "Show the context window for a new message",
		Long:  "Select the prior turns of a chat that fit the token budget and print them with their token accounting. Use - as chat-id for a new conversation.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runContext,
	}

	addWindowFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("persona", "p", "", "Persona name from the personas file")
	cmd.Flags().String("doc", "", "File whose content is appended to the system prompt")
	cmd.Flags().Int("max-tokens", 0, "Context budget in tokens (default from config)")
	cmd.Flags().Int("reserved", 0, "Tokens reserved for the response (default from config)")
	cmd.Flags().Int("min-messages", 0, "Minimum history messages kept (default from config)")
	cmd.Flags().Int("max-messages", 0, "Maximum history messages (default from config)")
}

// windowRequest builds a window.Request from flags, config and the stored chat.
func windowRequest(ctx context.Context, cmd *cobra.Command, s store.Store, chatID, text string) (window.Request, error) {
	req := window.Request{
		NewMessage: text,
		Budget:     cfg.Context,
	}

	if f := cmd.Flags(); f != nil {
		if f.Changed("max-tokens") {
			req.Budget.MaxTokens, _ = f.GetInt("max-tokens")
		}
		if f.Changed("reserved") {
			req.Budget.ReservedForResponse, _ = f.GetInt("reserved")
		}
		if f.Changed("min-messages") {
			req.Budget.MinMessages, _ = f.GetInt("min-messages")
		}
		if f.Changed("max-messages") {
			req.Budget.MaxMessages, _ = f.GetInt("max-messages")
		}
	}

	if chatID != newChatID {
		chat, err := s.GetChat(ctx, chatID)
		if err != nil {
			return req, err
		}
		req.Chat = chat
	}

	if name, _ := cmd.Flags().GetString("persona"); name != "" {
		personas, err := config.LoadPersonas(cfg.PersonasFile)
		if err != nil {
			return req, err
		}
		p, err := config.FindPersona(personas, name)
		if err != nil {
			return req, err
		}
		req.Persona = p
	}

	if doc, _ := cmd.Flags().GetString("doc"); doc != "" {
		b, err := os.ReadFile(doc)
		if err != nil {
			return req, err
		}
		req.Document = string(b)
	}

	return req, nil
}

func runContext(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	req, err := windowRequest(cmd.Context(), cmd, s, args[0], strings.Join(args[1:], " "))
	if err != nil {
		exitErr("context", err)
	}

	printJSON(window.Build(req, cfg.Estimator()))
}
