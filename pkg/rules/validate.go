package rules

import "fmt"

// ValidationError describes one presence-check failure in a rule document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule field %q: %s", e.Field, e.Message)
}

var validActions = map[string]bool{
	ActionAllow:       true,
	ActionDeny:        true,
	ActionDenyBranded: true,
}

var validMatchTypes = map[string]bool{
	MatchTypeClientIP:    true,
	MatchTypeCountryCode: true,
}

// ValidAction reports whether s is an accepted allowDeny value.
func ValidAction(s string) bool {
	return validActions[s]
}

// ValidMatchType reports whether s is an accepted matchType value.
func ValidMatchType(s string) bool {
	return validMatchTypes[s]
}

// ValidateRule runs presence checks on a single rule document. This is not
// schema validation: unknown fields pass untouched, only the fields the
// Request Control service requires are checked for presence and membership.
func ValidateRule(doc Document) error {
	name, _ := doc["name"].(string)
	if name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}

	action, _ := doc["allowDeny"].(string)
	if action == "" {
		return &ValidationError{Field: "allowDeny", Message: "must not be empty"}
	}
	if !ValidAction(action) {
		return &ValidationError{
			Field:   "allowDeny",
			Message: fmt.Sprintf("unknown action %q (expected allow, deny or denybranded)", action),
		}
	}

	matches, ok := doc["matches"].([]any)
	if !ok || len(matches) == 0 {
		return &ValidationError{Field: "matches", Message: "must contain at least one match"}
	}

	for i, raw := range matches {
		match, ok := raw.(map[string]any)
		if !ok {
			return &ValidationError{
				Field:   fmt.Sprintf("matches[%d]", i),
				Message: "must be an object",
			}
		}

		matchType, _ := match["matchType"].(string)
		if matchType == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("matches[%d].matchType", i),
				Message: "must not be empty",
			}
		}
		if !ValidMatchType(matchType) {
			return &ValidationError{
				Field:   fmt.Sprintf("matches[%d].matchType", i),
				Message: fmt.Sprintf("unknown match type %q (expected clientip or countrycode)", matchType),
			}
		}

		matchValue, _ := match["matchValue"].(string)
		if matchValue == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("matches[%d].matchValue", i),
				Message: "must not be empty",
			}
		}
	}

	return nil
}

// ValidateDocument validates either a single rule document or a version-style
// document carrying a matchRules array.
func ValidateDocument(doc Document) error {
	matchRules := doc.MatchRules()
	if matchRules == nil {
		return ValidateRule(doc)
	}

	if len(matchRules) == 0 {
		return &ValidationError{Field: "matchRules", Message: "must contain at least one rule"}
	}
	for i, raw := range matchRules {
		rule, ok := raw.(map[string]any)
		if !ok {
			return &ValidationError{
				Field:   fmt.Sprintf("matchRules[%d]", i),
				Message: "must be an object",
			}
		}
		if err := ValidateRule(Document(rule)); err != nil {
			return fmt.Errorf("matchRules[%d]: %w", i, err)
		}
	}
	return nil
}
