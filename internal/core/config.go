package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the towerctl configuration file.
type Config struct {
	Tower    string `yaml:"tower"`
	Seed     uint64 `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
	Journal  struct {
		DSN string `yaml:"dsn"`
	} `yaml:"journal"`
	Telemetry struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"telemetry"`
}

// MemoryDSN keeps the journal for the life of the process only.
const MemoryDSN = ":memory:"

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	var cfg Config
	cfg.Tower = "oslo"
	cfg.LogLevel = "info"
	cfg.Journal.DSN = MemoryDSN
	return cfg
}

// DefaultConfigPath resolves $XDG_CONFIG_HOME/towerctl/config.yaml or
// ~/.config/towerctl/config.yaml.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "towerctl", "config.yaml")
}

// LoadConfig reads YAML configuration from a path. An empty path falls back to
// DefaultConfigPath, and a missing default file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("TOWERCTL_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse TOWERCTL_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("TOWERCTL_JOURNAL"); v != "" {
		cfg.Journal.DSN = v
	}
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = MemoryDSN
	}
	return cfg, nil
}
