package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/memory"
	"github.com/rcliao/chatcore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOutput struct {
	*store.Stats
	Memories memory.ContextStats `json:"memory_contexts"`
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	contexts, err := s.ListMemories(cmd.Context(), "", time.Now())
	if err != nil {
		exitErr("list memories", err)
	}

	printJSON(statsOutput{Stats: stats, Memories: memory.StatsOfContexts(contexts)})
}
