package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override spendlog.yaml.
const (
	EnvHome    = "SPENDLOG_HOME"
	EnvBackend = "SPENDLOG_BACKEND"
	EnvKey     = "SPENDLOG_STORAGE_KEY"
	EnvLevel   = "SPENDLOG_LOG_LEVEL"
)

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays non-empty SPENDLOG_* variables onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getenv(EnvKey); v != "" {
		cfg.Storage.Key = v
	}
	if v := getenv(EnvLevel); v != "" {
		cfg.Log.Level = v
	}
}

// DefaultHome returns $SPENDLOG_HOME, or ~/.spendlog.
func DefaultHome() string {
	if v := os.Getenv(EnvHome); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spendlog"
	}
	return filepath.Join(home, ".spendlog")
}
