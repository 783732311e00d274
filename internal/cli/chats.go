package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats",
		Run:   runChats,
	}

	cmd.Flags().String("category", "", "Filter by category: work, personal, research, general")
	cmd.Flags().StringP("tag", "t", "", "Filter by tag")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output chat IDs and titles")

	RootCmd.AddCommand(cmd)
}

func runChats(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chats, err := s.ListChats(cmd.Context(), store.ListParams{
		Category: category,
		Tag:      tag,
		Limit:    limit,
	})
	if err != nil {
		exitErr("list chats", err)
	}

	if idsOnly {
		for _, c := range chats {
			fmt.Printf("%s\t%s\n", c.ID, c.Title)
		}
		return
	}

	if chats == nil {
		chats = []model.Chat{}
	}
	printJSON(chats)
}
