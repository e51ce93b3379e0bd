package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validRule() Document {
	return Document{
		"type":      RuleType,
		"name":      "block-office-range",
		"allowDeny": ActionDeny,
		"matches": []any{
			map[string]any{"matchType": MatchTypeClientIP, "matchValue": "192.0.2.0/24"},
		},
		"disabled": false,
	}
}

func TestValidateRule_Valid(t *testing.T) {
	if err := ValidateRule(validRule()); err != nil {
		t.Fatalf("ValidateRule() error = %v, want nil", err)
	}
}

func TestValidateRule_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Document)
	}{
		{"missing name", func(d Document) { delete(d, "name") }},
		{"empty name", func(d Document) { d["name"] = "" }},
		{"missing allowDeny", func(d Document) { delete(d, "allowDeny") }},
		{"unknown action", func(d Document) { d["allowDeny"] = "block" }},
		{"no matches", func(d Document) { d["matches"] = []any{} }},
		{"matches not a list", func(d Document) { d["matches"] = "nope" }},
		{"match missing type", func(d Document) {
			d["matches"] = []any{map[string]any{"matchValue": "192.0.2.1"}}
		}},
		{"unknown match type", func(d Document) {
			d["matches"] = []any{map[string]any{"matchType": "hostname", "matchValue": "x"}}
		}},
		{"match missing value", func(d Document) {
			d["matches"] = []any{map[string]any{"matchType": MatchTypeCountryCode}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validRule()
			tt.mutate(doc)

			err := ValidateRule(doc)
			if err == nil {
				t.Fatal("ValidateRule() error = nil, want error")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestValidateRule_DeniesBrandedAccepted(t *testing.T) {
	doc := validRule()
	doc["allowDeny"] = ActionDenyBranded

	if err := ValidateRule(doc); err != nil {
		t.Fatalf("ValidateRule() error = %v, want nil for denybranded", err)
	}
}

func TestValidateDocument_VersionStyle(t *testing.T) {
	doc := Document{
		"description": "v2 rules",
		"matchRules":  []any{map[string]any(validRule())},
	}
	if err := ValidateDocument(doc); err != nil {
		t.Fatalf("ValidateDocument() error = %v, want nil", err)
	}
}

func TestValidateDocument_VersionStyleBadRule(t *testing.T) {
	bad := validRule()
	bad["allowDeny"] = "reject"
	doc := Document{"matchRules": []any{map[string]any(bad)}}

	err := ValidateDocument(doc)
	if err == nil {
		t.Fatal("ValidateDocument() error = nil, want error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want wrapped *ValidationError", err)
	}
}

func TestValidateDocument_EmptyMatchRules(t *testing.T) {
	if err := ValidateDocument(Document{"matchRules": []any{}}); err == nil {
		t.Fatal("ValidateDocument() error = nil, want error for empty matchRules")
	}
}

func TestLoad_RoundTripPreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.json")
	content := `{"type":"igMatchRule","name":"r1","allowDeny":"allow",
		"matches":[{"matchType":"countrycode","matchValue":"DE"}],
		"futureField":{"nested":true}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if _, ok := doc["futureField"]; !ok {
		t.Error("futureField missing after Load, want unknown fields preserved")
	}

	if err := ValidateRule(doc); err != nil {
		t.Errorf("ValidateRule() error = %v, want nil", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}
