package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/memory"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Suggest, review and list bookmarks",
	}

	suggest := &cobra.Command{
		Use:   "suggest <chat-id>",
		Short: "Score a chat's responses and store bookmark suggestions",
		Args:  cobra.ExactArgs(1),
		Run:   runBookmarksSuggest,
	}

	add := &cobra.Command{
		Use:   "add <chat-id> <message-id>",
		Short: "Bookmark a message yourself",
		Args:  cobra.ExactArgs(2),
		Run:   runBookmarksAdd,
	}
	add.Flags().String("title", "", "Title (default: derived from the message)")
	add.Flags().StringSliceP("tag", "t", nil, "Tags")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored bookmarks",
		Run:   runBookmarksList,
	}
	list.Flags().String("chat", "", "Only bookmarks in this chat")
	list.Flags().String("type", "", "Bookmark type: user or ai_suggested")
	list.Flags().Bool("accepted", false, "Only accepted bookmarks")
	list.Flags().String("text", "", "Match title, description or tags")
	list.Flags().StringP("tag", "t", "", "Filter by tag")
	list.Flags().String("importance", "", "Filter by importance: low, medium, high")

	accept := &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a suggestion",
		Args:  cobra.ExactArgs(1),
		Run:   runBookmarksAccept,
	}

	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject and delete a pending suggestion",
		Args:  cobra.ExactArgs(1),
		Run:   runBookmarksReject,
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Bookmark counts by importance, type and tag",
		Run:   runBookmarksStats,
	}

	cmd.AddCommand(suggest, add, list, accept, reject, stats)
	RootCmd.AddCommand(cmd)
}

func runBookmarksSuggest(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chat, err := s.GetChat(ctx, args[0])
	if err != nil {
		exitErr("get chat", err)
	}

	suggested := memory.NewAnalyzer().Suggest(chat)
	if err := s.SaveBookmarks(ctx, suggested); err != nil {
		exitErr("save bookmarks", err)
	}
	if suggested == nil {
		suggested = []model.Bookmark{}
	}
	printJSON(suggested)
}

func runBookmarksAdd(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	ctx := cmd.Context()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chat, err := s.GetChat(ctx, args[0])
	if err != nil {
		exitErr("get chat", err)
	}
	var msg *model.Message
	for i := range chat.Messages {
		if chat.Messages[i].ID == args[1] {
			msg = &chat.Messages[i]
			break
		}
	}
	if msg == nil {
		exitErr("get message", fmt.Errorf("message %s: %w", args[1], store.ErrNotFound))
	}

	b := memory.UserBookmark(*msg, chat.ID, title, tags)
	if err := s.SaveBookmarks(ctx, []model.Bookmark{b}); err != nil {
		exitErr("save bookmark", err)
	}
	printJSON(b)
}

func runBookmarksList(cmd *cobra.Command, args []string) {
	chatID, _ := cmd.Flags().GetString("chat")
	typ, _ := cmd.Flags().GetString("type")
	accepted, _ := cmd.Flags().GetBool("accepted")
	text, _ := cmd.Flags().GetString("text")
	tag, _ := cmd.Flags().GetString("tag")
	importance, _ := cmd.Flags().GetString("importance")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stored, err := s.ListBookmarks(cmd.Context(), store.BookmarkQuery{
		ChatID:       chatID,
		Type:         model.BookmarkType(typ),
		AcceptedOnly: accepted,
	})
	if err != nil {
		exitErr("list bookmarks", err)
	}

	out := memory.FilterBookmarks(stored, memory.BookmarkQuery{
		Text:       text,
		Tag:        tag,
		Importance: model.Importance(importance),
	})
	if out == nil {
		out = []model.Bookmark{}
	}
	printJSON(out)
}

func runBookmarksAccept(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.AcceptBookmark(cmd.Context(), args[0]); err != nil {
		exitErr("accept bookmark", err)
	}
	fmt.Printf(`{"ok":true,"accepted":%q}`+"\n", args[0])
}

func runBookmarksReject(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RejectBookmark(cmd.Context(), args[0]); err != nil {
		exitErr("reject bookmark", err)
	}
	fmt.Printf(`{"ok":true,"rejected":%q}`+"\n", args[0])
}

func runBookmarksStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	all, err := s.ListBookmarks(cmd.Context(), store.BookmarkQuery{})
	if err != nil {
		exitErr("list bookmarks", err)
	}
	printJSON(memory.StatsOf(all))
}
