package rules

// versionServerFields are the server-assigned fields of a policy version
// envelope that must not be present when the document is resubmitted as a
// new version.
var versionServerFields = []string{
	"createdBy",
	"createdDate",
	"lastModifiedBy",
	"lastModifiedDate",
	"activations",
	"deleted",
	"revisionId",
	"locked",
	"rulesLocked",
	"location",
	"policyId",
	"version",
}

// ruleServerFields are the server-assigned fields of an individual rule.
var ruleServerFields = []string{
	"akaRuleId",
	"location",
}

// StripVersion removes server-assigned metadata from a downloaded version
// document, including the per-rule fields inside matchRules. It returns the
// same document for chaining.
func StripVersion(doc Document) Document {
	for _, field := range versionServerFields {
		delete(doc, field)
	}

	for _, raw := range doc.MatchRules() {
		if rule, ok := raw.(map[string]any); ok {
			stripRuleFields(rule)
		}
	}
	return doc
}

// StripRule removes server-assigned metadata from a single rule document.
// It returns the same document for chaining.
func StripRule(doc Document) Document {
	stripRuleFields(doc)
	return doc
}

func stripRuleFields(rule map[string]any) {
	for _, field := range ruleServerFields {
		delete(rule, field)
	}
}
