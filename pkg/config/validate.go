package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Message)
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

var validHistoryBackends = map[string]bool{
	"sqlite": true,
	"memory": true,
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns the first error found.
func Validate(cfg *Config) error {
	if cfg.Edge.EdgercPath == "" {
		return &ValidationError{Field: "edge.edgerc_path", Message: "must not be empty"}
	}
	if cfg.Edge.Section == "" {
		return &ValidationError{Field: "edge.section", Message: "must not be empty"}
	}
	if cfg.Edge.Timeout <= 0 {
		return &ValidationError{Field: "edge.timeout", Message: "must be positive"}
	}

	code := strings.TrimSpace(cfg.Cloudlet.Code)
	if code == "" {
		return &ValidationError{Field: "cloudlet.code", Message: "must not be empty"}
	}
	if code != strings.ToUpper(code) {
		return &ValidationError{Field: "cloudlet.code", Message: "must be upper case"}
	}
	if cfg.Cloudlet.GroupID < 0 {
		return &ValidationError{Field: "cloudlet.group_id", Message: "must not be negative"}
	}

	if cfg.Cache.Dir == "" {
		return &ValidationError{Field: "cache.dir", Message: "must not be empty"}
	}

	if !validHistoryBackends[cfg.History.Backend] {
		return &ValidationError{
			Field:   "history.backend",
			Message: fmt.Sprintf("unknown backend %q (expected sqlite or memory)", cfg.History.Backend),
		}
	}
	if cfg.History.Backend == "sqlite" && cfg.History.Path == "" {
		return &ValidationError{Field: "history.path", Message: "must not be empty for the sqlite backend"}
	}

	if !validLogLevels[cfg.Logging.Level] {
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		}
	}
	if !validLogFormats[cfg.Logging.Format] {
		return &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		}
	}

	return nil
}
