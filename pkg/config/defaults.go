package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default values applied to unset configuration fields.
const (
	DefaultEdgercSection  = "cloudlets"
	DefaultCloudletCode   = "IG"
	DefaultTimeout        = 30 * time.Second
	DefaultHistoryBackend = "sqlite"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// ApplyDefaults fills in default values for any unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Edge.EdgercPath == "" {
		cfg.Edge.EdgercPath = filepath.Join(homeDir(), ".edgerc")
	}
	if cfg.Edge.Section == "" {
		cfg.Edge.Section = DefaultEdgercSection
	}
	if cfg.Edge.Timeout <= 0 {
		cfg.Edge.Timeout = DefaultTimeout
	}

	if cfg.Cloudlet.Code == "" {
		cfg.Cloudlet.Code = DefaultCloudletCode
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(homeDir(), ".cloudlet", "policies")
	}

	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(homeDir(), ".cloudlet", "history.db")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// DefaultConfig returns a configuration with all defaults applied and
// history logging enabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.History.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// homeDir returns the user's home directory, falling back to the current
// directory when it cannot be determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}

// ExpandPath expands a leading "~/" in path to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
