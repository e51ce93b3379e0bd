package cloudlets

// Network identifies an activation target network.
type Network string

const (
	// NetworkStaging is the Akamai staging network.
	NetworkStaging Network = "staging"
	// NetworkProduction is the Akamai production network. The API spells
	// it "prod".
	NetworkProduction Network = "prod"
)

// ParseNetwork normalizes a user-supplied network name.
func ParseNetwork(s string) (Network, bool) {
	switch s {
	case "staging", "STAGING":
		return NetworkStaging, true
	case "prod", "production", "PROD", "PRODUCTION":
		return NetworkProduction, true
	}
	return "", false
}

// cloudletIDs maps the two-letter cloudlet code to the numeric cloudletId
// used by the listPolicies filter.
var cloudletIDs = map[string]int64{
	"ER":  0,
	"VP":  1,
	"FR":  3,
	"IG":  4,
	"AP":  5,
	"AS":  6,
	"CD":  7,
	"IV":  8,
	"ALB": 9,
}

// CloudletID returns the numeric id for a cloudlet code. The second return
// is false for unknown codes.
func CloudletID(code string) (int64, bool) {
	id, ok := cloudletIDs[code]
	return id, ok
}

// Policy is a policy record as returned by the policies collection.
type Policy struct {
	PolicyID     int64        `json:"policyId"`
	GroupID      int64        `json:"groupId"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	CloudletID   int64        `json:"cloudletId"`
	CloudletCode string       `json:"cloudletCode"`
	APIVersion   string       `json:"apiVersion,omitempty"`
	Deleted      bool         `json:"deleted,omitempty"`
	Activations  []Activation `json:"activations,omitempty"`
}

// Match is one match condition inside a rule.
type Match struct {
	MatchType     string `json:"matchType"`
	MatchValue    string `json:"matchValue"`
	MatchOperator string `json:"matchOperator,omitempty"`
	Negate        bool   `json:"negate"`
	CaseSensitive bool   `json:"caseSensitive"`
}

// MatchRule is a Request Control rule within a policy version.
type MatchRule struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	AllowDeny string  `json:"allowDeny"`
	MatchURL  string  `json:"matchURL,omitempty"`
	Matches   []Match `json:"matches,omitempty"`
	Disabled  bool    `json:"disabled"`

	// Server-assigned.
	AkaRuleID string `json:"akaRuleId,omitempty"`
	Location  string `json:"location,omitempty"`
}

// PolicyVersion is the server-authoritative version envelope.
type PolicyVersion struct {
	PolicyID    int64       `json:"policyId"`
	Version     int64       `json:"version"`
	Description string      `json:"description,omitempty"`
	MatchRules  []MatchRule `json:"matchRules,omitempty"`

	// Server-assigned metadata; stripped before any resubmission.
	CreatedBy        string       `json:"createdBy,omitempty"`
	CreatedDate      int64        `json:"createdDate,omitempty"`
	LastModifiedBy   string       `json:"lastModifiedBy,omitempty"`
	LastModifiedDate int64        `json:"lastModifiedDate,omitempty"`
	RevisionID       int64        `json:"revisionId,omitempty"`
	RulesLocked      bool         `json:"rulesLocked,omitempty"`
	Activations      []Activation `json:"activations,omitempty"`
	Deleted          bool         `json:"deleted,omitempty"`
	Location         string       `json:"location,omitempty"`
}

// Activation describes a version activation on one network.
type Activation struct {
	APIVersion   string       `json:"apiVersion,omitempty"`
	Network      Network      `json:"network"`
	PolicyInfo   PolicyInfo   `json:"policyInfo"`
	PropertyInfo PropertyInfo `json:"propertyInfo,omitempty"`
}

// PolicyInfo is the policy part of an activation record.
type PolicyInfo struct {
	PolicyID       int64  `json:"policyId"`
	Name           string `json:"name,omitempty"`
	Version        int64  `json:"version"`
	Status         string `json:"status,omitempty"`
	StatusDetail   string `json:"statusDetail,omitempty"`
	ActivatedBy    string `json:"activatedBy,omitempty"`
	ActivationDate int64  `json:"activationDate,omitempty"`
}

// PropertyInfo is the property part of an activation record.
type PropertyInfo struct {
	Name           string `json:"name,omitempty"`
	Version        int64  `json:"version,omitempty"`
	GroupID        int64  `json:"groupId,omitempty"`
	Status         string `json:"status,omitempty"`
	ActivatedBy    string `json:"activatedBy,omitempty"`
	ActivationDate int64  `json:"activationDate,omitempty"`
}

// ListPoliciesOptions controls policy discovery.
type ListPoliciesOptions struct {
	// CloudletID filters by cloudlet product when non-negative.
	// Use -1 for no filter.
	CloudletID int64

	// GroupID filters by group when non-zero.
	GroupID int64

	// IncludeDeleted includes deleted policies.
	IncludeDeleted bool

	// Offset and PageSize page through large accounts. A zero PageSize
	// lets the service choose.
	Offset   int
	PageSize int
}

// CreateVersionRequest is the client-built body for version creation.
type CreateVersionRequest struct {
	Description string      `json:"description,omitempty"`
	MatchRules  []MatchRule `json:"matchRules,omitempty"`
}

// ActivationRequest is the body for version activation.
type ActivationRequest struct {
	Network                 Network  `json:"network"`
	AdditionalPropertyNames []string `json:"additionalPropertyNames,omitempty"`
}
