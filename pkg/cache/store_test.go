package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edgekit-hq/cloudlet/pkg/cloudlets"
)

func samplePolicies() []cloudlets.Policy {
	return []cloudlets.Policy{
		{PolicyID: 1234, GroupID: 567, Name: "mobile-block", CloudletCode: "IG", Description: "block mobile carriers"},
		{PolicyID: 1235, GroupID: 567, Name: "country-allow", CloudletCode: "IG"},
	}
}

func TestStore_RefreshWritesPerPolicyAndIndex(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	records, err := store.Refresh(samplePolicies())
	if err != nil {
		t.Fatalf("Refresh() error = %v, want nil", err)
	}
	if len(records) != 2 {
		t.Fatalf("Refresh() returned %d records, want 2", len(records))
	}

	for _, name := range []string{"mobile-block.json", "country-allow.json", IndexFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected cache file %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "mobile-block.json"))
	if err != nil {
		t.Fatalf("failed to read per-policy file: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("per-policy file is not JSON: %v", err)
	}
	if rec.PolicyID != 1234 {
		t.Errorf("rec.PolicyID = %d, want 1234", rec.PolicyID)
	}
	if rec.CloudletCode != "IG" {
		t.Errorf("rec.CloudletCode = %q, want IG", rec.CloudletCode)
	}
	if rec.CachedAt.IsZero() {
		t.Error("rec.CachedAt is zero, want refresh time")
	}
}

func TestStore_RefreshRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	if _, err := store.Refresh(samplePolicies()); err != nil {
		t.Fatalf("Refresh() error = %v, want nil", err)
	}

	// Second refresh with one policy gone remotely.
	if _, err := store.Refresh(samplePolicies()[:1]); err != nil {
		t.Fatalf("second Refresh() error = %v, want nil", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "country-allow.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale cache file still present, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mobile-block.json")); err != nil {
		t.Errorf("surviving cache file missing: %v", err)
	}
}

func TestStore_LoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	if _, err := store.Refresh(samplePolicies()); err != nil {
		t.Fatalf("Refresh() error = %v, want nil", err)
	}

	registry, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	id, err := registry.Resolve("mobile-block")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if id != 1234 {
		t.Errorf("Resolve() = %d, want 1234", id)
	}

	_, err = registry.Resolve("unknown-policy")
	var notCached *NotCachedError
	if !errors.As(err, &notCached) {
		t.Fatalf("Resolve(unknown) error type = %T, want *NotCachedError", err)
	}
	if notCached.Name != "unknown-policy" {
		t.Errorf("NotCachedError.Name = %q, want %q", notCached.Name, "unknown-policy")
	}
}

func TestStore_LoadMissingIndexIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	registry, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if registry.Len() != 0 {
		t.Errorf("registry.Len() = %d, want 0", registry.Len())
	}
}

func TestStore_ReadPolicy(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	if _, err := store.Refresh(samplePolicies()); err != nil {
		t.Fatalf("Refresh() error = %v, want nil", err)
	}

	rec, err := store.ReadPolicy("country-allow")
	if err != nil {
		t.Fatalf("ReadPolicy() error = %v, want nil", err)
	}
	if rec.PolicyID != 1235 {
		t.Errorf("rec.PolicyID = %d, want 1235", rec.PolicyID)
	}

	_, err = store.ReadPolicy("missing")
	var notCached *NotCachedError
	if !errors.As(err, &notCached) {
		t.Fatalf("ReadPolicy(missing) error type = %T, want *NotCachedError", err)
	}
}

func TestStore_SanitizesPolicyNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	policies := []cloudlets.Policy{
		{PolicyID: 1, Name: "emea/prod policy", CloudletCode: "IG"},
	}
	if _, err := store.Refresh(policies); err != nil {
		t.Fatalf("Refresh() error = %v, want nil", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "emea_prod_policy.json")); err != nil {
		t.Errorf("sanitized cache file missing: %v", err)
	}

	rec, err := store.ReadPolicy("emea/prod policy")
	if err != nil {
		t.Fatalf("ReadPolicy() error = %v, want nil", err)
	}
	if rec.Name != "emea/prod policy" {
		t.Errorf("rec.Name = %q, want original name preserved", rec.Name)
	}
}
