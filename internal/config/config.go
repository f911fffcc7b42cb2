// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all runtime configuration for the jobdeck client.
type Config struct {
	// APIBaseURL is the root of the job-listing service.
	APIBaseURL string
	// VaultPath is the sqlite file holding the session ticket.
	VaultPath string
	// VaultPassphrase, when set, seals the ticket at rest.
	VaultPassphrase string
	// LogLevel: debug, info, warn, error.
	LogLevel string
}

// Load reads JOBDECK_* environment variables and applies defaults.
// Nothing is required; a bare environment yields a usable local config.
func Load() Config {
	cfg := Config{
		APIBaseURL:      os.Getenv("JOBDECK_API_URL"),
		VaultPath:       os.Getenv("JOBDECK_VAULT_PATH"),
		VaultPassphrase: os.Getenv("JOBDECK_VAULT_PASSPHRASE"),
		LogLevel:        os.Getenv("JOBDECK_LOG_LEVEL"),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.VaultPath == "" {
		cfg.VaultPath = defaultVaultPath()
	}
	return cfg
}

func defaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobdeck.db"
	}
	return filepath.Join(home, ".jobdeck", "jobdeck.db")
}
