package config

import "time"

// Config is the root configuration structure for the cloudlet CLI.
type Config struct {
	// Edge contains EdgeGrid credential settings used to sign API requests.
	Edge EdgeConfig `yaml:"edge"`

	// Cloudlet contains settings that scope API calls to one cloudlet
	// product and optionally one group.
	Cloudlet CloudletConfig `yaml:"cloudlet"`

	// Cache contains local policy cache settings.
	Cache CacheConfig `yaml:"cache"`

	// History contains settings for the local mutation audit log.
	History HistoryConfig `yaml:"history"`

	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// EdgeConfig contains EdgeGrid credential settings.
type EdgeConfig struct {
	// EdgercPath is the path to the .edgerc credentials file.
	// Default: "~/.edgerc"
	EdgercPath string `yaml:"edgerc_path"`

	// Section is the .edgerc section holding the Cloudlets API credentials.
	// Default: "cloudlets"
	Section string `yaml:"section"`

	// Timeout is the per-request HTTP timeout. Exactly one attempt is made
	// per API call; there is no retry.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// CloudletConfig scopes API calls to a single cloudlet product.
type CloudletConfig struct {
	// Code is the two-letter cloudlet code. Request Control is "IG".
	// Default: "IG"
	Code string `yaml:"code"`

	// GroupID restricts policy discovery to one group when non-zero.
	GroupID int64 `yaml:"group_id"`
}

// CacheConfig contains local policy cache settings.
type CacheConfig struct {
	// Dir is the directory holding one JSON file per policy plus the
	// aggregate policies.json index.
	// Default: "~/.cloudlet/policies"
	Dir string `yaml:"dir"`
}

// HistoryConfig contains settings for the local mutation audit log.
type HistoryConfig struct {
	// Enabled turns audit logging of mutating commands on or off.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "~/.cloudlet/history.db"
	Path string `yaml:"path"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("text" or "json").
	// Default: "text"
	Format string `yaml:"format"`
}
