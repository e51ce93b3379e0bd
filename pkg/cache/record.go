package cache

import (
	"time"

	"edgekit-hq/cloudlet/pkg/cloudlets"
)

// Record is the cached metadata for one policy.
type Record struct {
	// Name is the user-facing key every command resolves through.
	Name string `json:"name"`

	// PolicyID is the remote identifier.
	PolicyID int64 `json:"policyId"`

	// GroupID is the owning group.
	GroupID int64 `json:"groupId"`

	// CloudletCode tags the cloudlet product, e.g. "IG".
	CloudletCode string `json:"cloudletCode"`

	// Description mirrors the remote description at cache time.
	Description string `json:"description,omitempty"`

	// CachedAt is when the record was last refreshed.
	CachedAt time.Time `json:"cachedAt"`
}

// NewRecord builds a cache record from a remote policy.
func NewRecord(p cloudlets.Policy, now time.Time) Record {
	return Record{
		Name:         p.Name,
		PolicyID:     p.PolicyID,
		GroupID:      p.GroupID,
		CloudletCode: p.CloudletCode,
		Description:  p.Description,
		CachedAt:     now.UTC(),
	}
}
