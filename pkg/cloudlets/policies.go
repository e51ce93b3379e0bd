package cloudlets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListPolicies returns the policies visible to the credentials, honoring the
// filters in opts.
func (c *Client) ListPolicies(ctx context.Context, opts ListPoliciesOptions) ([]Policy, error) {
	query := url.Values{}
	if opts.CloudletID >= 0 {
		query.Set("cloudletId", strconv.FormatInt(opts.CloudletID, 10))
	}
	if opts.GroupID != 0 {
		query.Set("gid", strconv.FormatInt(opts.GroupID, 10))
	}
	if opts.IncludeDeleted {
		query.Set("includeDeleted", "true")
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	var policies []Policy
	if err := c.do(ctx, "listPolicies", http.MethodGet, "/policies", query, nil, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// GetPolicy returns a single policy record by id.
func (c *Client) GetPolicy(ctx context.Context, policyID int64) (*Policy, error) {
	var policy Policy
	path := fmt.Sprintf("/policies/%d", policyID)
	if err := c.do(ctx, "getPolicy", http.MethodGet, path, nil, nil, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}
