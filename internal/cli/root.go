// Package cli implements the chatcore CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatcore/internal/config"
	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg = config.Default()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "chatcore",
	Short: "Conversation intelligence for a local chat corpus",
	Long:  "Search, context windows, memory extraction, bookmark suggestions and usage analytics over chats stored in SQLite. Output is JSON.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Init(logger.Options{Verbose: verbose}); err != nil {
			exitErr("init logger", err)
		}
		loaded, err := config.Load(config.Path(configPath))
		if err != nil {
			exitErr("load config", err)
		}
		cfg = loaded
		logger.L().Debugw("config loaded", "path", config.Path(configPath), "db", getDBPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CHATCORE_DB, config db_path, or ~/.chatcore/chat.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CHATCORE_CONFIG or ~/.chatcore/config.toml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

func getDBPath() string {
	return cfg.ResolveDBPath(dbPath)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
