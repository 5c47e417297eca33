package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file kept in the spendlog home directory.
const FileName = "spendlog.yaml"

// DefaultStorageKey is the slot the expense list is persisted under.
const DefaultStorageKey = "@expenses_list"

// Config represents the top-level spendlog.yaml configuration.
type Config struct {
	Storage        StorageConfig   `yaml:"storage"`
	Log            LogConfig       `yaml:"log"`
	PaymentMethods []PaymentMethod `yaml:"payment_methods,omitempty"`
	Git            GitConfig       `yaml:"git"`
}

// StorageConfig selects where entries are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite or memory
	Dir     string `yaml:"dir"`     // relative to the home directory unless absolute
	Key     string `yaml:"key"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// PaymentMethod is one selectable payment channel.
type PaymentMethod struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

// GitConfig controls versioning of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a spendlog.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads <home>/spendlog.yaml, or returns the defaults if it does not exist.
func LoadOrDefault(home string) (*Config, error) {
	cfg, err := Load(filepath.Join(home, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new home directory.
// Payment methods are left empty; the built-in catalog applies until some are listed.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "data",
			Key:     DefaultStorageKey,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "spendlog",
			AuthorEmail: "spendlog@localhost",
		},
	}
}

// DataDir resolves the storage directory against home.
func (c *Config) DataDir(home string) string {
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(home, c.Storage.Dir)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown storage backend %q", c.Storage.Backend))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		problems = append(problems, "storage key must not be empty")
	}
	for i, m := range c.PaymentMethods {
		if strings.TrimSpace(m.ID) == "" {
			problems = append(problems, fmt.Sprintf("payment method %d has no id", i+1))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
