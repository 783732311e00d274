package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/memory"
	"github.com/rcliao/chatcore/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Extract and recall memory contexts",
	}

	extract := &cobra.Command{
		Use:   "extract <chat-id>",
		Short: "Extract preferences, facts and topics from a chat and store them",
		Args:  cobra.ExactArgs(1),
		Run:   runMemoryExtract,
	}
	extract.Flags().Duration("ttl", 0, "Expire extracted contexts after this long (0 keeps them)")

	recall := &cobra.Command{
		Use:   "recall <chat-id> <message...>",
		Short: "Find stored contexts relevant to a message",
		Long:  "Use - as chat-id to search contexts from every chat.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runMemoryRecall,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored contexts",
		Run:   runMemoryList,
	}
	list.Flags().String("chat", "", "Only contexts from this chat")
	list.Flags().String("type", "", "Context type: preference, fact, conversation_topic")
	list.Flags().StringP("keyword", "k", "", "Keyword substring")

	cmd.AddCommand(extract, recall, list)
	RootCmd.AddCommand(cmd)
}

func runMemoryExtract(cmd *cobra.Command, args []string) {
	ttl, _ := cmd.Flags().GetDuration("ttl")
	ctx := cmd.Context()
	now := time.Now().UTC()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chat, err := s.GetChat(ctx, args[0])
	if err != nil {
		exitErr("get chat", err)
	}

	fresh := memory.NewExtractor().ExtractChat(chat)
	if ttl > 0 {
		exp := now.Add(ttl)
		for i := range fresh {
			fresh[i].ExpiresAt = &exp
		}
	}

	existing, err := s.ListMemories(ctx, chat.ID, now)
	if err != nil {
		exitErr("list memories", err)
	}
	merged := memory.MergeContexts(existing, fresh)
	if err := s.ReplaceMemories(ctx, chat.ID, merged); err != nil {
		exitErr("save memories", err)
	}

	if fresh == nil {
		fresh = []model.MemoryContext{}
	}
	printJSON(map[string]interface{}{
		"chat_id":   chat.ID,
		"extracted": fresh,
		"stored":    len(merged),
	})
}

func runMemoryRecall(cmd *cobra.Command, args []string) {
	chatID := args[0]
	if chatID == newChatID {
		chatID = ""
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	contexts, err := s.ListMemories(cmd.Context(), chatID, time.Now().UTC())
	if err != nil {
		exitErr("list memories", err)
	}

	found := memory.FindRelevant(strings.Join(args[1:], " "), contexts)
	if found == nil {
		found = []model.MemoryContext{}
	}
	printJSON(found)
}

func runMemoryList(cmd *cobra.Command, args []string) {
	chatID, _ := cmd.Flags().GetString("chat")
	typ, _ := cmd.Flags().GetString("type")
	keyword, _ := cmd.Flags().GetString("keyword")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	contexts, err := s.ListMemories(cmd.Context(), chatID, time.Now().UTC())
	if err != nil {
		exitErr("list memories", err)
	}

	out := memory.FilterContexts(contexts, model.MemoryType(typ), keyword)
	if out == nil {
		out = []model.MemoryContext{}
	}
	printJSON(out)
}
