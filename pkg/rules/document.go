package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is a rule or policy-version JSON object. Unknown fields are
// preserved across load, merge, and strip.
type Document map[string]any

// Rule actions accepted by Request Control.
const (
	ActionAllow       = "allow"
	ActionDeny        = "deny"
	ActionDenyBranded = "denybranded"
)

// Match types accepted by Request Control.
const (
	MatchTypeClientIP    = "clientip"
	MatchTypeCountryCode = "countrycode"
)

// RuleType is the match-rule type tag for the Request Control cloudlet.
const RuleType = "igMatchRule"

// Template returns the built-in rule template: a disabled deny rule with a
// single empty clientip match, ready for user attributes to be merged in.
func Template() Document {
	return Document{
		"type":      RuleType,
		"name":      "",
		"allowDeny": ActionDeny,
		"matches": []any{
			map[string]any{
				"matchType":     MatchTypeClientIP,
				"matchValue":    "",
				"matchOperator": "equals",
				"negate":        false,
				"caseSensitive": false,
			},
		},
		"disabled": true,
	}
}

// Load reads a JSON document from a file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %q: %w", path, err)
	}
	return doc, nil
}

// FromJSON decodes a document from raw JSON.
func FromJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}
	return doc, nil
}

// Clone returns a deep copy of the document via a JSON round trip.
func (d Document) Clone() Document {
	data, err := json.Marshal(d)
	if err != nil {
		return Document{}
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return Document{}
	}
	return out
}

// Name returns the document's name field, or an empty string.
func (d Document) Name() string {
	name, _ := d["name"].(string)
	return name
}

// MatchRules returns the matchRules array of a version document, or nil when
// absent.
func (d Document) MatchRules() []any {
	mr, _ := d["matchRules"].([]any)
	return mr
}
