package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/analytics"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Usage analytics over the corpus",
		Run:   runAnalytics,
	}

	cmd.Flags().StringP("range", "r", "all", "Time range: today, week, month, all")
	cmd.Flags().String("at", "", "Reference time, RFC3339 (default: now)")

	RootCmd.AddCommand(cmd)
}

func runAnalytics(cmd *cobra.Command, args []string) {
	rangeStr, _ := cmd.Flags().GetString("range")
	at, _ := cmd.Flags().GetString("at")

	r, err := analytics.ParseRange(rangeStr)
	if err != nil {
		exitErr("parse range", err)
	}

	now := time.Now()
	if at != "" {
		if now, err = time.Parse(time.RFC3339, at); err != nil {
			exitErr("parse at", err)
		}
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

	printJSON(analytics.Aggregate(chats, r, now))
}
