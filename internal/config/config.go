// Package config handles configuration loading and saving for repochat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/diogo/repochat/internal/models"
)

// Environment variables that override the config file
const (
	EnvBackendURL = "REPOCHAT_BACKEND_URL"
	EnvTimeout    = "REPOCHAT_TIMEOUT"
	EnvLogLevel   = "REPOCHAT_LOG_LEVEL"
	EnvLogFile    = "REPOCHAT_LOG_FILE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style,omitempty"`   // glamour style; empty follows dark_mode
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Keep single newlines in answers
}

// Config represents the user configuration
type Config struct {
	BackendURL string `json:"backend_url"`
	// TimeoutSeconds bounds every backend request. 0 disables the timeout;
	// indexing a large repository can take minutes.
	TimeoutSeconds int `json:"timeout_seconds"`
	// RequestsPerMinute paces outgoing requests. 0 disables pacing.
	RequestsPerMinute int            `json:"requests_per_minute"`
	DarkMode          bool           `json:"dark_mode"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	LogLevel          string         `json:"log_level,omitempty"` // empty disables logging
	LogFile           string         `json:"log_file,omitempty"`
	Markdown          MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BackendURL:        models.DefaultBaseURL,
		TimeoutSeconds:    0,
		RequestsPerMinute: 60,
		DarkMode:          false,
		CopyToClipboard:   false,
		Markdown:          DefaultMarkdownConfig(),
	}
}

// Timeout returns the configured request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if err := ValidateBackendURL(c.BackendURL); err != nil {
		return err
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute cannot be negative")
	}
	return nil
}

// ValidateBackendURL checks that raw is an absolute http(s) URL
func ValidateBackendURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("backend URL must include a host")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".repochat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, defaulting to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "repochat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides.
// A .env file in the working directory is read first, if present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg), nil
}

// LoadFile reads the config file without environment overrides. Use it
// before SaveConfig so overrides are not written back.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with REPOCHAT_* environment variables.
// Malformed numeric values are ignored.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetValue updates a single config key from its string form.
// Keys use the JSON field names.
func SetValue(cfg *Config, key, value string) error {
	switch key {
	case "backend_url":
		if err := ValidateBackendURL(value); err != nil {
			return err
		}
		cfg.BackendURL = strings.TrimRight(value, "/")
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer")
		}
		cfg.TimeoutSeconds = n
	case "requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("requests_per_minute must be a non-negative integer")
		}
		cfg.RequestsPerMinute = n
	case "dark_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("dark_mode must be true or false")
		}
		cfg.DarkMode = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		cfg.CopyToClipboard = b
	case "log_level":
		cfg.LogLevel = value
	case "log_file":
		cfg.LogFile = value
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Keys returns the config keys accepted by SetValue
func Keys() []string {
	return []string{
		"backend_url",
		"timeout_seconds",
		"requests_per_minute",
		"dark_mode",
		"copy_to_clipboard",
		"log_level",
		"log_file",
		"markdown.style",
	}
}
