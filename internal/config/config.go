// Package config loads chatcore settings from TOML and personas from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/chatcore/internal/tokens"
	"github.com/rcliao/chatcore/internal/window"
)

// Environment variables consulted during resolution.
const (
	EnvConfig = "CHATCORE_CONFIG"
	EnvDB     = "CHATCORE_DB"
)

// Config is the on-disk configuration.
type Config struct {
	DBPath       string        `toml:"db_path"`
	PersonasFile string        `toml:"personas_file"`
	Tokens       TokensConfig  `toml:"tokens"`
	Context      window.Budget `toml:"context"`
	LLM          LLMConfig     `toml:"llm"`
}

type TokensConfig struct {
	CharsPerToken int `toml:"chars_per_token"`
}

type LLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	APIKeyEnv   string  `toml:"api_key_env"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

// Dir returns ~/.chatcore.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatcore")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DBPath:       filepath.Join(Dir(), "chat.db"),
		PersonasFile: filepath.Join(Dir(), "personas.yaml"),
		Tokens:       TokensConfig{CharsPerToken: tokens.DefaultCharsPerToken},
		Context:      window.DefaultBudget(),
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   1000,
			Temperature: 0.7,
		},
	}
}

// Path resolves the config file: flag, then $CHATCORE_CONFIG, then ~/.chatcore/config.toml.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.PersonasFile = expandHome(cfg.PersonasFile)
	return cfg, nil
}

// ResolveDBPath applies flag > $CHATCORE_DB > config > default.
func (c Config) ResolveDBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDB); env != "" {
		return env
	}
	if c.DBPath != "" {
		return c.DBPath
	}
	return Default().DBPath
}

// Estimator returns the token estimator configured by [tokens].
func (c Config) Estimator() tokens.Estimator {
	return tokens.Estimator{CharsPerToken: c.Tokens.CharsPerToken}
}

// APIKey reads the LLM key from the configured environment variable.
func (c Config) APIKey() string {
	if c.LLM.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}

// ErrPersonaNotFound is returned by FindPersona.
var ErrPersonaNotFound = errors.New("persona not found")

// LoadPersonas reads a YAML list of personas. A missing file yields none.
func LoadPersonas(path string) ([]window.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read personas: %w", err)
	}
	var personas []window.Persona
	if err := yaml.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("parse personas yaml: %w", err)
	}
	for i, p := range personas {
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d: missing name", i)
		}
	}
	return personas, nil
}

// FindPersona returns the persona named name, case-insensitively.
func FindPersona(personas []window.Persona, name string) (*window.Persona, error) {
	for i := range personas {
		if strings.EqualFold(personas[i].Name, name) {
			return &personas[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrPersonaNotFound)
}
