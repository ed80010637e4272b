// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/logging"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	LLM     LLMConfig     `toml:"llm"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// GridConfig holds the weekly grid geometry.
type GridConfig struct {
	StartHour       int `toml:"start_hour"`       // e.g., 8
	EndHour         int `toml:"end_hour"`         // e.g., 24
	IntervalMinutes int `toml:"interval_minutes"` // must divide 60
	UTCOffsetHours  int `toml:"utc_offset_hours"` // used for the "now" marker
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend  string `toml:"backend"` // "sqlite" or "json"
	DBPath   string `toml:"db_path"`
	JSONPath string `toml:"json_path"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // empty uses the provider's default
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			StartHour:       grid.DefaultStartHour,
			EndHour:         grid.DefaultEndHour,
			IntervalMinutes: grid.DefaultIntervalMinutes,
			UTCOffsetHours:  -3,
		},
		Storage: StorageConfig{
			Backend:  BackendSQLite,
			DBPath:   defaultDataPath("semana.db"),
			JSONPath: defaultDataPath("planner.json"),
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
		},
		Server: ServerConfig{
			Addr:    ":5000",
			Metrics: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDataPath returns a path under the user's data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "semana", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "semana", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.JSONPath = expandPath(cfg.Storage.JSONPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SEMANA_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"SEMANA_START_HOUR", &cfg.Grid.StartHour},
		{"SEMANA_END_HOUR", &cfg.Grid.EndHour},
		{"SEMANA_INTERVAL_MINUTES", &cfg.Grid.IntervalMinutes},
		{"SEMANA_UTC_OFFSET_HOURS", &cfg.Grid.UTCOffsetHours},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}

	strs := []struct {
		env string
		dst *string
	}{
		{"SEMANA_STORAGE_BACKEND", &cfg.Storage.Backend},
		{"SEMANA_DB_PATH", &cfg.Storage.DBPath},
		{"SEMANA_JSON_PATH", &cfg.Storage.JSONPath},
		{"SEMANA_LLM_PROVIDER", &cfg.LLM.Provider},
		{"SEMANA_LLM_MODEL", &cfg.LLM.Model},
		{"SEMANA_LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"SEMANA_SERVER_ADDR", &cfg.Server.Addr},
		{"SEMANA_LOG_LEVEL", &cfg.Log.Level},
		{"SEMANA_LOG_FORMAT", &cfg.Log.Format},
		{"SEMANA_UI_THEME", &cfg.UI.Theme},
	}
	for _, o := range strs {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if v := os.Getenv("SEMANA_SERVER_METRICS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEMANA_SERVER_METRICS must be a boolean, got %q", v)
		}
		cfg.Server.Metrics = b
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.GridGeometry().Validate(); err != nil {
		return err
	}
	if c.Grid.UTCOffsetHours < -12 || c.Grid.UTCOffsetHours > 14 {
		return fmt.Errorf("utc_offset_hours must be between -12 and 14, got %d", c.Grid.UTCOffsetHours)
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendJSON:
		if c.Storage.JSONPath == "" {
			return errors.New("json_path must be set")
		}
	default:
		return fmt.Errorf("storage backend must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Storage.Backend)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format)
	}
	return nil
}

// GridGeometry returns the grid configuration.
func (c *Config) GridGeometry() grid.Config {
	return grid.Config{
		StartHour:       c.Grid.StartHour,
		EndHour:         c.Grid.EndHour,
		IntervalMinutes: c.Grid.IntervalMinutes,
	}
}

// UTCOffset returns the fixed offset used to locate "now" on the grid.
func (c *Config) UTCOffset() time.Duration {
	return time.Duration(c.Grid.UTCOffsetHours) * time.Hour
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
