package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edgekit-hq/cloudlet/pkg/cloudlets"
)

// IndexFile is the aggregate list file name inside the cache directory.
const IndexFile = "policies.json"

// Store reads and rewrites the on-disk policy cache.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write, not here.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    dir,
		logger: logger.With("component", "cache.store"),
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Refresh rewrites the whole cache from the given remote policies: one JSON
// file per policy, the aggregate index, and removal of files for policies
// that no longer exist remotely.
func (s *Store) Refresh(policies []cloudlets.Policy) ([]Record, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, &StoreError{Operation: "mkdir", Path: s.dir, Err: err}
	}

	now := time.Now()
	records := make([]Record, 0, len(policies))
	keep := map[string]bool{IndexFile: true}

	for _, policy := range policies {
		rec := NewRecord(policy, now)
		records = append(records, rec)

		file := recordFileName(rec.Name)
		keep[file] = true
		if err := s.writeJSON(filepath.Join(s.dir, file), rec); err != nil {
			return nil, err
		}
	}

	if err := s.writeJSON(filepath.Join(s.dir, IndexFile), records); err != nil {
		return nil, err
	}

	if err := s.removeStale(keep); err != nil {
		return nil, err
	}

	s.logger.Info("policy cache refreshed", "dir", s.dir, "policies", len(records))
	return records, nil
}

// Load reads the aggregate index into a registry. A missing index yields an
// empty registry, not an error: commands then fail per name with
// NotCachedError.
func (s *Store) Load() (*Registry, error) {
	registry := NewRegistry()

	data, err := os.ReadFile(filepath.Join(s.dir, IndexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return registry, nil
		}
		return nil, &StoreError{Operation: "read", Path: filepath.Join(s.dir, IndexFile), Err: err}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StoreError{Operation: "decode", Path: filepath.Join(s.dir, IndexFile), Err: err}
	}

	registry.Replace(records)
	return registry, nil
}

// ReadPolicy reads one per-policy cache file by name.
func (s *Store) ReadPolicy(name string) (*Record, error) {
	path := filepath.Join(s.dir, recordFileName(name))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotCachedError{Name: name}
		}
		return nil, &StoreError{Operation: "read", Path: path, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &StoreError{Operation: "decode", Path: path, Err: err}
	}
	return &rec, nil
}

// writeJSON writes a JSON document atomically: temp file in the same
// directory, then rename.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StoreError{Operation: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return &StoreError{Operation: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StoreError{Operation: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StoreError{Operation: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &StoreError{Operation: "rename", Path: path, Err: err}
	}
	return nil
}

// removeStale deletes cache files not in the keep set.
func (s *Store) removeStale(keep map[string]bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return &StoreError{Operation: "readdir", Path: s.dir, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || keep[name] || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(s.dir, name)
		if err := os.Remove(path); err != nil {
			return &StoreError{Operation: "remove", Path: path, Err: err}
		}
		s.logger.Debug("removed stale cache file", "file", name)
	}
	return nil
}

// recordFileName maps a policy name to a safe cache file name.
func recordFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return fmt.Sprintf("%s.json", b.String())
}
