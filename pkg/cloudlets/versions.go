package cloudlets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListVersions returns every version of a policy, newest last.
func (c *Client) ListVersions(ctx context.Context, policyID int64) ([]PolicyVersion, error) {
	var versions []PolicyVersion
	path := fmt.Sprintf("/policies/%d/versions", policyID)
	if err := c.do(ctx, "listVersions", http.MethodGet, path, nil, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion returns one policy version, rules included.
func (c *Client) GetVersion(ctx context.Context, policyID, version int64) (*PolicyVersion, error) {
	var v PolicyVersion
	path := fmt.Sprintf("/policies/%d/versions/%d", policyID, version)
	query := url.Values{"omitRules": []string{"false"}}
	if err := c.do(ctx, "getVersion", http.MethodGet, path, query, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVersionDocument fetches one policy version as a raw JSON object, rules
// included. Download-for-edit flows use this instead of GetVersion so fields
// this client does not model survive a later resubmission.
func (c *Client) GetVersionDocument(ctx context.Context, policyID, version int64) (map[string]any, error) {
	var doc map[string]any
	path := fmt.Sprintf("/policies/%d/versions/%d", policyID, version)
	query := url.Values{"omitRules": []string{"false"}}
	if err := c.do(ctx, "getVersion", http.MethodGet, path, query, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LatestVersion returns the highest-numbered version of a policy, or an
// error when the policy has no versions yet.
func (c *Client) LatestVersion(ctx context.Context, policyID int64) (*PolicyVersion, error) {
	versions, err := c.ListVersions(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("policy %d has no versions", policyID)
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Version > latest.Version {
			latest = v
		}
	}
	return &latest, nil
}

// CreateVersion creates a new policy version. The body may be a
// CreateVersionRequest or any JSON document already stripped of
// server-assigned fields. A non-zero cloneVersion seeds the new version from
// an existing one.
func (c *Client) CreateVersion(ctx context.Context, policyID int64, body any, cloneVersion int64) (*PolicyVersion, error) {
	var query url.Values
	if cloneVersion > 0 {
		query = url.Values{"cloneVersion": []string{strconv.FormatInt(cloneVersion, 10)}}
	}

	if body == nil {
		body = &CreateVersionRequest{}
	}

	var created PolicyVersion
	path := fmt.Sprintf("/policies/%d/versions", policyID)
	if err := c.do(ctx, "createVersion", http.MethodPost, path, query, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Activate publishes a policy version on the given network.
func (c *Client) Activate(ctx context.Context, policyID, version int64, network Network) ([]Activation, error) {
	body := &ActivationRequest{Network: network}

	var activations []Activation
	path := fmt.Sprintf("/policies/%d/versions/%d/activations", policyID, version)
	if err := c.do(ctx, "activateVersion", http.MethodPost, path, nil, body, &activations); err != nil {
		return nil, err
	}
	return activations, nil
}

// ListActivations returns the activation history of a policy across both
// networks.
func (c *Client) ListActivations(ctx context.Context, policyID int64) ([]Activation, error) {
	var activations []Activation
	path := fmt.Sprintf("/policies/%d/activations", policyID)
	if err := c.do(ctx, "listActivations", http.MethodGet, path, nil, nil, &activations); err != nil {
		return nil, err
	}
	return activations, nil
}
