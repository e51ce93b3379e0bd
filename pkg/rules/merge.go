package rules

// Overlay carries user-supplied rule attributes from command flags. Nil
// fields were not given on the command line and leave the base document
// untouched.
type Overlay struct {
	Name       *string
	AllowDeny  *string
	MatchType  *string
	MatchValue *string
	Disabled   *bool
}

// Empty reports whether the overlay carries no attributes at all.
func (o Overlay) Empty() bool {
	return o.Name == nil && o.AllowDeny == nil && o.MatchType == nil &&
		o.MatchValue == nil && o.Disabled == nil
}

// Merge applies the overlay to a copy of base and returns it. base is either
// the built-in template or a previously downloaded rule document.
//
// Match handling: when the overlay sets a match type or value, the first
// existing match is rewritten in place (keeping its operator and flags) and
// becomes the only match. Rules with hand-edited multi-match lists should be
// submitted via a file instead of flags.
func Merge(base Document, overlay Overlay) Document {
	doc := base.Clone()
	if doc == nil {
		doc = Document{}
	}
	if _, ok := doc["type"]; !ok {
		doc["type"] = RuleType
	}

	if overlay.Name != nil {
		doc["name"] = *overlay.Name
	}
	if overlay.AllowDeny != nil {
		doc["allowDeny"] = *overlay.AllowDeny
	}
	if overlay.Disabled != nil {
		doc["disabled"] = *overlay.Disabled
	}

	if overlay.MatchType != nil || overlay.MatchValue != nil {
		match := firstMatch(doc)
		if overlay.MatchType != nil {
			match["matchType"] = *overlay.MatchType
		}
		if overlay.MatchValue != nil {
			match["matchValue"] = *overlay.MatchValue
		}
		doc["matches"] = []any{match}
	}

	return doc
}

// firstMatch returns a copy of the document's first match condition, or a
// fresh one when the document has none.
func firstMatch(doc Document) map[string]any {
	matches, _ := doc["matches"].([]any)
	if len(matches) > 0 {
		if m, ok := matches[0].(map[string]any); ok {
			out := make(map[string]any, len(m))
			for k, v := range m {
				out[k] = v
			}
			return out
		}
	}
	return map[string]any{
		"matchOperator": "equals",
		"negate":        false,
		"caseSensitive": false,
	}
}
