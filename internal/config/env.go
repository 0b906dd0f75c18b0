package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by tutorchat
const (
	EnvAPIKey      = "API_KEY"
	EnvJWTSecret   = "TUTORCHAT_JWT_SECRET"
	EnvBypassAuth  = "TUTORCHAT_BYPASS_AUTH"
	EnvRemoteURL   = "TUTORCHAT_REMOTE_URL"
	EnvRemoteToken = "TUTORCHAT_REMOTE_TOKEN"
)

// LoadEnv loads .env files into the process environment. Variables that are
// already set win. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// APIKey returns the Gemini API key from the environment
func APIKey() string {
	return os.Getenv(EnvAPIKey)
}

// ApplyEnv overlays secrets and switches from the environment onto cfg
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv(EnvBypassAuth); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.BypassAuth = b
		}
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv(EnvRemoteToken); v != "" {
		cfg.Remote.Token = v
	}
}
