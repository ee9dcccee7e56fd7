// Package config loads and validates the digest configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"notiondigest/internal/notion"
)

// Environment variables that override file values.
const (
	EnvAPIKey     = "NOTION_API_KEY"
	EnvDatabaseID = "NOTION_DATABASE_ID"
	EnvOutputDir  = "NOTION_OUTPUT_DIR"
)

// Configuration errors.
var (
	ErrIncompleteNotionSettings = errors.New("notion settings are incomplete, please check the settings")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidTimeout           = errors.New("notion.timeout_sec must be at least 1")
	ErrInvalidSchedule          = errors.New("schedule.cron is not a valid cron expression")
)

// Config represents the complete digest configuration.
type Config struct {
	Notion   NotionConfig   `yaml:"notion"`
	Output   OutputConfig   `yaml:"output"`
	History  HistoryConfig  `yaml:"history"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NotionConfig holds API access settings.
type NotionConfig struct {
	APIKey     string `yaml:"api_key"`
	DatabaseID string `yaml:"database_id"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// OutputConfig controls where and how digests are written.
type OutputConfig struct {
	Directory   string `yaml:"directory"`
	Sign        bool   `yaml:"sign"`
	FrontMatter bool   `yaml:"frontmatter"`
}

// HistoryConfig points at the run history database. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig defines when the scheduler generates the previous week's digest.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Settings are the three options the digest needs to run.
type Settings struct {
	OutputDirectory  string
	NotionAPIKey     string
	NotionDatabaseID string
}

// DefaultConfig returns the built-in defaults. Settings default to empty strings.
func DefaultConfig() *Config {
	return &Config{
		Notion: NotionConfig{
			BaseURL:    notion.DefaultBaseURL,
			TimeoutSec: 30,
		},
		Schedule: ScheduleConfig{
			Cron: "0 9 * * MON",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.config/notiondigest/config.yaml, or a relative fallback.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notiondigest.yaml"
	}

	return filepath.Join(dir, "notiondigest", "config.yaml")
}

// LoadConfig reads the YAML file over the defaults and applies environment overrides.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Notion.APIKey = v
	}

	if v := os.Getenv(EnvDatabaseID); v != "" {
		c.Notion.DatabaseID = v
	}

	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Directory = v
	}
}

// SaveConfig writes the configuration as YAML, creating the directory if needed.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values that have a fixed domain.
func (c *Config) Validate() error {
	if err := validation.Validate(c.Logging.Level, validation.In("debug", "info", "warn", "error")); err != nil {
		return ErrInvalidLogLevel
	}

	if err := validation.Validate(c.Logging.Format, validation.In("text", "json")); err != nil {
		return ErrInvalidLogFormat
	}

	if err := validation.Validate(c.Notion.TimeoutSec, validation.Required, validation.Min(1)); err != nil {
		return ErrInvalidTimeout
	}

	if err := validation.Validate(c.Schedule.Cron, validation.By(validCron)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	return nil
}

// ValidateForFetch checks that the Notion credentials are present.
func (c *Config) ValidateForFetch() error {
	err := validation.ValidateStruct(&c.Notion,
		validation.Field(&c.Notion.APIKey, validation.Required),
		validation.Field(&c.Notion.DatabaseID, validation.Required),
	)
	if err != nil {
		return ErrIncompleteNotionSettings
	}

	return nil
}

func validCron(value any) error {
	expr, _ := value.(string)
	if expr == "" {
		return nil
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return err
	}

	return nil
}

// Settings returns the persisted options used by a fetch.
func (c *Config) Settings() Settings {
	return Settings{
		OutputDirectory:  c.Output.Directory,
		NotionAPIKey:     c.Notion.APIKey,
		NotionDatabaseID: c.Notion.DatabaseID,
	}
}

// Timeout returns the HTTP timeout for Notion requests.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Notion.TimeoutSec) * time.Second
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Notion.APIKey != "" {
		out.Notion.APIKey = "********"
	}

	return &out
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Database: %s, Output: %s, History: %s}",
		c.Notion.DatabaseID,
		c.Output.Directory,
		c.History.Path,
	)
}
