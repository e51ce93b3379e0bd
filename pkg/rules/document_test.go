package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTemplateIsMergeReady(t *testing.T) {
	doc := Template()

	if doc["type"] != RuleType {
		t.Errorf("type = %v, want %q", doc["type"], RuleType)
	}
	if doc["allowDeny"] != ActionDeny {
		t.Errorf("allowDeny = %v, want %q", doc["allowDeny"], ActionDeny)
	}
	if doc["disabled"] != true {
		t.Error("template rule should start disabled")
	}

	matches, ok := doc["matches"].([]any)
	if !ok || len(matches) != 1 {
		t.Fatalf("matches = %v, want one match", doc["matches"])
	}
	match := matches[0].(map[string]any)
	if match["matchType"] != MatchTypeClientIP {
		t.Errorf("matchType = %v, want %q", match["matchType"], MatchTypeClientIP)
	}

	// Empty name and matchValue: the template alone must not validate.
	if err := ValidateRule(doc); err == nil {
		t.Error("ValidateRule(Template()) = nil, want error before attributes are merged")
	}
}

func TestFromJSON_KeepsUnknownFields(t *testing.T) {
	doc, err := FromJSON([]byte(`{"name": "r1", "matchesAlways": true, "nested": {"x": 1}}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v, want nil", err)
	}
	if doc.Name() != "r1" {
		t.Errorf("Name() = %q, want %q", doc.Name(), "r1")
	}
	if doc["matchesAlways"] != true {
		t.Errorf("doc[matchesAlways] = %v, want true", doc["matchesAlways"])
	}
	if _, ok := doc["nested"].(map[string]any); !ok {
		t.Errorf("doc[nested] = %v, want object", doc["nested"])
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON([]byte(`{"name":`)); err == nil {
		t.Error("FromJSON() with truncated JSON succeeded, want error")
	}
}

func TestClone_Independent(t *testing.T) {
	doc := Document{"name": "r1", "matches": []any{map[string]any{"matchValue": "a"}}}
	clone := doc.Clone()

	clone["name"] = "r2"
	clone["matches"].([]any)[0].(map[string]any)["matchValue"] = "b"

	if doc["name"] != "r1" {
		t.Errorf("original name = %v, want %q after mutating clone", doc["name"], "r1")
	}
	if got := doc["matches"].([]any)[0].(map[string]any)["matchValue"]; got != "a" {
		t.Errorf("original matchValue = %v, want %q after mutating clone", got, "a")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.json")
	if err := os.WriteFile(path, []byte(`{"name": "r1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if doc.Name() != "r1" {
		t.Errorf("Name() = %q, want %q", doc.Name(), "r1")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() of missing file succeeded, want error")
	}
}
