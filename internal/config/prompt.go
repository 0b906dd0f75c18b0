package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed prompt.md
var defaultSystemPrompt string

// DefaultSystemPrompt returns the built-in tutor instruction
func DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

// LoadSystemPrompt returns the system prompt for cfg: the file named by
// SystemPromptFile when set, else the built-in prompt
func LoadSystemPrompt(cfg Config) (string, error) {
	if cfg.SystemPromptFile == "" {
		return defaultSystemPrompt, nil
	}

	data, err := os.ReadFile(cfg.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file is empty: %s", cfg.SystemPromptFile)
	}
	return prompt, nil
}
