package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatcore/internal/config"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/store"
	"github.com/rcliao/chatcore/internal/window"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	from, err := parseDate("2024-06-01", false)
	require.NoError(t, err)
	assert.Equal(t, 0, from.Hour())

	to, err := parseDate("2024-06-01", true)
	require.NoError(t, err)
	assert.Equal(t, 23, to.Hour())
	assert.Equal(t, 1, to.Day())

	exact, err := parseDate("2024-06-01T10:30:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, 10, exact.Hour())

	_, err = parseDate("June 1st", false)
	assert.Error(t, err)
}

func newWindowCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addWindowFlags(cmd)
	return cmd
}

func TestWindowRequestFlagsOverrideConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "cli.db"))
	require.NoError(t, err)
	defer s.Close()

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err = s.ImportChats(ctx, []model.Chat{{
		ID: "c1", Title: "Greeting", CreatedAt: at,
		Messages: []model.Message{
			{ID: "m1", Role: model.RolePrompt, Text: "hello", Timestamp: at},
			{ID: "m2", Role: model.RoleResponse, Text: "hi there", Timestamp: at},
		},
	}})
	require.NoError(t, err)

	personas := filepath.Join(dir, "personas.yaml")
	require.NoError(t, os.WriteFile(personas, []byte("- name: pirate\n  system_prompt: Talk like a pirate.\n"), 0o600))
	doc := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(doc, []byte("release notes"), 0o600))

	cfg = config.Default()
	cfg.PersonasFile = personas
	t.Cleanup(func() { cfg = config.Default() })

	cmd := newWindowCmd(t)
	require.NoError(t, cmd.Flags().Parse([]string{"--max-tokens", "1500", "--persona", "Pirate", "--doc", doc}))

	req, err := windowRequest(ctx, cmd, s, "c1", "what's new?")
	require.NoError(t, err)
	assert.Equal(t, 1500, req.Budget.MaxTokens)
	assert.Equal(t, 1000, req.Budget.ReservedForResponse)
	require.NotNil(t, req.Chat)
	assert.Len(t, req.Chat.Messages, 2)
	require.NotNil(t, req.Persona)
	assert.Equal(t, "Talk like a pirate.", req.Persona.SystemPrompt)
	assert.Equal(t, "release notes", req.Document)

	w := window.Build(req, cfg.Estimator())
	require.Len(t, w.Turns, 4)
	assert.Contains(t, w.Turns[0].Content, "release notes")
	assert.Equal(t, "what's new?", w.Turns[3].Content)
}

func TestWindowRequestNewConversation(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "cli.db"))
	require.NoError(t, err)
	defer s.Close()

	req, err := windowRequest(context.Background(), newWindowCmd(t), s, newChatID, "hi")
	require.NoError(t, err)
	assert.Nil(t, req.Chat)

	_, err = windowRequest(context.Background(), newWindowCmd(t), s, "missing", "hi")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
