package cloudlets

import (
	"context"
	"fmt"
	"net/http"
)

// AddRule appends a rule to a policy version. rule may be a MatchRule or any
// JSON-marshalable rule document; the decoded server copy (with its assigned
// akaRuleId) is returned.
func (c *Client) AddRule(ctx context.Context, policyID, version int64, rule any) (*MatchRule, error) {
	var created MatchRule
	path := fmt.Sprintf("/policies/%d/versions/%d/rules", policyID, version)
	if err := c.do(ctx, "addRule", http.MethodPost, path, nil, rule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetRule fetches one rule of a policy version by its server-assigned id.
func (c *Client) GetRule(ctx context.Context, policyID, version int64, ruleID string) (*MatchRule, error) {
	var rule MatchRule
	path := fmt.Sprintf("/policies/%d/versions/%d/rules/%s", policyID, version, ruleID)
	if err := c.do(ctx, "getRule", http.MethodGet, path, nil, nil, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetRuleDocument fetches one rule as a raw JSON object. Edit flows use this
// instead of GetRule so fields this client does not model survive a
// download-edit-resubmit round trip.
func (c *Client) GetRuleDocument(ctx context.Context, policyID, version int64, ruleID string) (map[string]any, error) {
	var doc map[string]any
	path := fmt.Sprintf("/policies/%d/versions/%d/rules/%s", policyID, version, ruleID)
	if err := c.do(ctx, "getRule", http.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ModifyRule replaces a rule of a policy version. rule must already be
// stripped of server-assigned fields.
func (c *Client) ModifyRule(ctx context.Context, policyID, version int64, ruleID string, rule any) (*MatchRule, error) {
	var updated MatchRule
	path := fmt.Sprintf("/policies/%d/versions/%d/rules/%s", policyID, version, ruleID)
	if err := c.do(ctx, "modifyRule", http.MethodPut, path, nil, rule, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
