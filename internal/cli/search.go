package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/search"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search chats and messages",
		Long:  "Rank chat titles and message text against the query. Without a query, list the chats passing the filters.",
		Run:   runSearch,
	}

	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().StringSliceP("tag", "t", nil, "Require tags (repeatable, all must match)")
	cmd.Flags().String("from", "", "Earliest date, YYYY-MM-DD or RFC3339")
	cmd.Flags().String("to", "", "Latest date, YYYY-MM-DD (whole day) or RFC3339")
	cmd.Flags().Bool("favorites", false, "Only favorite messages")
	cmd.Flags().String("type", "", "Message type: prompt or response")
	cmd.Flags().IntP("limit", "l", 20, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)

	tags := &cobra.Command{
		Use:   "tags",
		Short: "Suggest tags from recurring words and existing tags",
		Run:   runTags,
	}
	RootCmd.AddCommand(tags)
}

func runSearch(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	favorites, _ := cmd.Flags().GetBool("favorites")
	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	f := search.Filters{
		Query:         strings.Join(args, " "),
		Category:      category,
		Tags:          tags,
		FavoritesOnly: favorites,
		MessageType:   model.Role(typ),
	}
	if typ != "" && f.MessageType != model.RolePrompt && f.MessageType != model.RoleResponse {
		exitErr("parse type", fmt.Errorf("%w %q", model.ErrInvalidRole, typ))
	}
	var err error
	if f.From, err = parseDate(fromStr, false); err != nil {
		exitErr("parse from", err)
	}
	if f.To, err = parseDate(toStr, true); err != nil {
		exitErr("parse to", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chats, err := s.Corpus(cmd.Context())
	if err != nil {
		exitErr("load corpus", err)
	}

	results := search.Search(chats, f)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	printJSON(results)
}

// parseDate accepts a date or an RFC3339 timestamp. A bare date used as an
// upper bound covers the whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func runTags(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chats, err := s.Corpus(cmd.Context())
	if err != nil {
		exitErr("load corpus", err)
	}

	tags := search.SuggestedTags(chats)
	if tags == nil {
		tags = []string{}
	}
	printJSON(tags)
}
