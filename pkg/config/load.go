package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	cfg.History.Enabled = true
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// CLOUDLET_SECTION_FIELD (e.g. CLOUDLET_EDGE_SECTION) and always take
// precedence over file values.
//
// A missing file is not an error: the defaults are used as the base. Any
// other read or parse failure is reported.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies CLOUDLET_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CLOUDLET_EDGE_EDGERC_PATH"); val != "" {
		cfg.Edge.EdgercPath = val
	}
	if val := os.Getenv("CLOUDLET_EDGE_SECTION"); val != "" {
		cfg.Edge.Section = val
	}
	if val := os.Getenv("CLOUDLET_EDGE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Edge.Timeout = d
		}
	}

	if val := os.Getenv("CLOUDLET_CLOUDLET_CODE"); val != "" {
		cfg.Cloudlet.Code = val
	}
	if val := os.Getenv("CLOUDLET_CLOUDLET_GROUP_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Cloudlet.GroupID = id
		}
	}

	if val := os.Getenv("CLOUDLET_CACHE_DIR"); val != "" {
		cfg.Cache.Dir = val
	}

	if val := os.Getenv("CLOUDLET_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CLOUDLET_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("CLOUDLET_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}

	if val := os.Getenv("CLOUDLET_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CLOUDLET_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
