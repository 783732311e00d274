package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 4000, cfg.Context.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
db_path = "/tmp/chat.db"

[tokens]
chars_per_token = 3

[context]
max_tokens = 2000
min_messages = 4

[llm]
model = "local-model"
base_url = "http://localhost:8080/v1"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chat.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.Estimator().CharsPerToken)
	assert.Equal(t, 2000, cfg.Context.MaxTokens)
	assert.Equal(t, 4, cfg.Context.MinMessages)
	assert.Equal(t, 1000, cfg.Context.ReservedForResponse, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.Context.MaxMessages)
	assert.Equal(t, "local-model", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveDBPath(t *testing.T) {
	cfg := Config{DBPath: "/from/config.db"}

	t.Setenv(EnvDB, "")
	assert.Equal(t, "/from/flag.db", cfg.ResolveDBPath("/from/flag.db"))
	assert.Equal(t, "/from/config.db", cfg.ResolveDBPath(""))

	t.Setenv(EnvDB, "/from/env.db")
	assert.Equal(t, "/from/env.db", cfg.ResolveDBPath(""))
	assert.Equal(t, "/from/flag.db", cfg.ResolveDBPath("/from/flag.db"))
}

func TestPathResolution(t *testing.T) {
	t.Setenv(EnvConfig, "")
	assert.Equal(t, "x.toml", Path("x.toml"))
	assert.Equal(t, filepath.Join(Dir(), "config.toml"), Path(""))

	t.Setenv(EnvConfig, "/etc/chatcore.toml")
	assert.Equal(t, "/etc/chatcore.toml", Path(""))
}

func TestLoadPersonas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	body := `
- name: Reviewer
  description: Terse code reviewer
  system_prompt: You review Go code.
- name: Tutor
  system_prompt: You explain things slowly.
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	personas, err := LoadPersonas(path)
	require.NoError(t, err)
	require.Len(t, personas, 2)
	assert.Equal(t, "You review Go code.", personas[0].SystemPrompt)

	p, err := FindPersona(personas, "tutor")
	require.NoError(t, err)
	assert.Equal(t, "Tutor", p.Name)

	_, err = FindPersona(personas, "nobody")
	assert.ErrorIs(t, err, ErrPersonaNotFound)
}

func TestLoadPersonasMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- system_prompt: hi\n"), 0o600))
	_, err := LoadPersonas(path)
	assert.Error(t, err)
}

func TestLoadPersonasMissingFile(t *testing.T) {
	personas, err := LoadPersonas(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, personas)
}
