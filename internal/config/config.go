// Package config handles configuration and secrets for tutorchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diogo/tutorchat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// RevealConfig paces the incremental display of replies
type RevealConfig struct {
	ChunkSize  int `json:"chunk_size"`  // runes per tick
	IntervalMs int `json:"interval_ms"` // milliseconds between ticks
}

// ServerConfig configures `tutorchat serve`
type ServerConfig struct {
	Addr string `json:"addr"`
	// JWTSecret signs and verifies bearer tokens. Empty disables the gate.
	// Usually supplied through TUTORCHAT_JWT_SECRET instead of the file.
	JWTSecret    string   `json:"jwt_secret,omitempty"`
	BypassAuth   bool     `json:"bypass_auth"`
	AllowOrigins []string `json:"allow_origins,omitempty"`
	// RateLimit is requests per second per client, 0 disables limiting
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
}

// RemoteConfig points the chat at a tutorchat server instead of Gemini
type RemoteConfig struct {
	URL   string `json:"url,omitempty"`
	Token string `json:"token,omitempty"`
}

// Config represents the user configuration
type Config struct {
	Model string `json:"model"`
	// Verbose enables detailed logging output during operations.
	Verbose         bool   `json:"verbose"`
	CopyToClipboard bool   `json:"copy_to_clipboard"`
	TUITheme        string `json:"tui_theme,omitempty"` // TUI color theme
	// RequestTimeout is the transport timeout in seconds
	RequestTimeout   int            `json:"request_timeout"`
	SystemPromptFile string         `json:"system_prompt_file,omitempty"` // overrides the built-in tutor prompt
	Markdown         MarkdownConfig `json:"markdown,omitempty"`
	Reveal           RevealConfig   `json:"reveal"`
	Server           ServerConfig   `json:"server"`
	Remote           RemoteConfig   `json:"remote,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:           models.DefaultModel,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		RequestTimeout:  300,
		Markdown:        DefaultMarkdownConfig(),
		Reveal: RevealConfig{
			ChunkSize:  models.DefaultRevealChunk,
			IntervalMs: models.DefaultRevealIntervalMs,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 2,
			RateBurst: 5,
		},
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".tutorchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory may hold tokens
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

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults repairs zero values a partial config file leaves behind
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.Reveal.ChunkSize <= 0 {
		c.Reveal.ChunkSize = def.Reveal.ChunkSize
	}
	if c.Reveal.IntervalMs <= 0 {
		c.Reveal.IntervalMs = def.Reveal.IntervalMs
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
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

// AvailableModels returns a list of available model names
func AvailableModels() []string {
	return models.AllModels()
}
