package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Success(t *testing.T) {
	path := writeConfigFile(t, `
edge:
  edgerc_path: /home/user/.edgerc
  section: rc-prod
  timeout: 10s
cloudlet:
  code: IG
  group_id: 12345
cache:
  dir: /var/cache/cloudlet
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}

	if cfg.Edge.Section != "rc-prod" {
		t.Errorf("Edge.Section = %q, want %q", cfg.Edge.Section, "rc-prod")
	}
	if cfg.Edge.Timeout != 10*time.Second {
		t.Errorf("Edge.Timeout = %v, want %v", cfg.Edge.Timeout, 10*time.Second)
	}
	if cfg.Cloudlet.GroupID != 12345 {
		t.Errorf("Cloudlet.GroupID = %d, want 12345", cfg.Cloudlet.GroupID)
	}
	if cfg.Cache.Dir != "/var/cache/cloudlet" {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, "/var/cache/cloudlet")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
cloudlet:
  group_id: 7
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}

	if cfg.Cloudlet.Code != DefaultCloudletCode {
		t.Errorf("Cloudlet.Code = %q, want %q", cfg.Cloudlet.Code, DefaultCloudletCode)
	}
	if cfg.Edge.Section != DefaultEdgercSection {
		t.Errorf("Edge.Section = %q, want %q", cfg.Edge.Section, DefaultEdgercSection)
	}
	if cfg.Edge.Timeout != DefaultTimeout {
		t.Errorf("Edge.Timeout = %v, want %v", cfg.Edge.Timeout, DefaultTimeout)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true by default")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "cache: [not a mapping")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}

func TestLoadConfigWithEnvOverrides_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v, want nil", err)
	}
	if cfg.Cloudlet.Code != DefaultCloudletCode {
		t.Errorf("Cloudlet.Code = %q, want %q", cfg.Cloudlet.Code, DefaultCloudletCode)
	}
}

func TestLoadConfigWithEnvOverrides_EnvWins(t *testing.T) {
	path := writeConfigFile(t, `
edge:
  section: from-file
`)

	t.Setenv("CLOUDLET_EDGE_SECTION", "from-env")
	t.Setenv("CLOUDLET_CLOUDLET_GROUP_ID", "99")
	t.Setenv("CLOUDLET_HISTORY_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v, want nil", err)
	}

	if cfg.Edge.Section != "from-env" {
		t.Errorf("Edge.Section = %q, want %q", cfg.Edge.Section, "from-env")
	}
	if cfg.Cloudlet.GroupID != 99 {
		t.Errorf("Cloudlet.GroupID = %d, want 99", cfg.Cloudlet.GroupID)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false from env override")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/policies", filepath.Join(home, "policies")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
