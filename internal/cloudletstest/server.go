// Package cloudletstest provides an in-process mock of the Cloudlets v2 API
// for command and client tests.
package cloudletstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"edgekit-hq/cloudlet/pkg/cloudlets"
)

// Server is a mock Cloudlets API backed by in-memory state. It implements
// the subset of endpoints the CLI uses: policy listing, version lifecycle,
// activation, and rule mutation.
type Server struct {
	mu           sync.Mutex
	policies     []cloudlets.Policy
	versions     map[int64][]*cloudlets.PolicyVersion
	activations  map[int64][]cloudlets.Activation
	nextRuleID   int
	requestCount int

	server *httptest.Server
}

// NewServer starts an empty mock API.
func NewServer() *Server {
	s := &Server{
		versions:    make(map[int64][]*cloudlets.PolicyVersion),
		activations: make(map[int64][]cloudlets.Activation),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cloudlets/api/v2/policies", s.handleListPolicies)
	mux.HandleFunc("GET /cloudlets/api/v2/policies/{policyID}", s.handleGetPolicy)
	mux.HandleFunc("GET /cloudlets/api/v2/policies/{policyID}/versions", s.handleListVersions)
	mux.HandleFunc("POST /cloudlets/api/v2/policies/{policyID}/versions", s.handleCreateVersion)
	mux.HandleFunc("GET /cloudlets/api/v2/policies/{policyID}/versions/{version}", s.handleGetVersion)
	mux.HandleFunc("POST /cloudlets/api/v2/policies/{policyID}/versions/{version}/activations", s.handleActivate)
	mux.HandleFunc("GET /cloudlets/api/v2/policies/{policyID}/activations", s.handleListActivations)
	mux.HandleFunc("POST /cloudlets/api/v2/policies/{policyID}/versions/{version}/rules", s.handleAddRule)
	mux.HandleFunc("GET /cloudlets/api/v2/policies/{policyID}/versions/{version}/rules/{ruleID}", s.handleGetRule)
	mux.HandleFunc("PUT /cloudlets/api/v2/policies/{policyID}/versions/{version}/rules/{ruleID}", s.handleModifyRule)

	s.server = httptest.NewServer(s.countRequests(mux))
	return s
}

// URL returns the mock server's base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the mock server down.
func (s *Server) Close() {
	s.server.Close()
}

// RequestCount returns the number of requests received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

// AddPolicy seeds a policy, returning it unchanged.
func (s *Server) AddPolicy(p cloudlets.Policy) cloudlets.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = append(s.policies, p)
	return p
}

// AddVersion seeds a version for a policy.
func (s *Server) AddVersion(v cloudlets.PolicyVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := v
	s.versions[v.PolicyID] = append(s.versions[v.PolicyID], &copied)
}

// Version returns a seeded or created version, or nil.
func (s *Server) Version(policyID, version int64) *cloudlets.PolicyVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findVersion(policyID, version)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestCount++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]cloudlets.Policy, 0, len(s.policies))
	cloudletFilter := r.URL.Query().Get("cloudletId")
	for _, p := range s.policies {
		if cloudletFilter != "" && strconv.FormatInt(p.CloudletID, 10) != cloudletFilter {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.policies {
		if p.PolicyID == policyID {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no policy with id %d", policyID))
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cloudlets.PolicyVersion, 0)
	for _, v := range s.versions[policyID] {
		out = append(out, *v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")
	version := pathInt(r, "version")

	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.findVersion(policyID, version); v != nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no version %d for policy %d", version, policyID))
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")

	var body cloudlets.CreateVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var next int64 = 1
	for _, v := range s.versions[policyID] {
		if v.Version >= next {
			next = v.Version + 1
		}
	}

	created := &cloudlets.PolicyVersion{
		PolicyID:    policyID,
		Version:     next,
		Description: body.Description,
		MatchRules:  body.MatchRules,
		CreatedBy:   "mock",
	}

	if clone := r.URL.Query().Get("cloneVersion"); clone != "" {
		cloneVersion, _ := strconv.ParseInt(clone, 10, 64)
		source := s.findVersion(policyID, cloneVersion)
		if source == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot clone missing version %d", cloneVersion))
			return
		}
		created.MatchRules = append([]cloudlets.MatchRule(nil), source.MatchRules...)
	}

	s.versions[policyID] = append(s.versions[policyID], created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")
	version := pathInt(r, "version")

	var body cloudlets.ActivationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Network != cloudlets.NetworkStaging && body.Network != cloudlets.NetworkProduction {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown network %q", body.Network))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findVersion(policyID, version) == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no version %d for policy %d", version, policyID))
		return
	}

	activation := cloudlets.Activation{
		Network: body.Network,
		PolicyInfo: cloudlets.PolicyInfo{
			PolicyID: policyID,
			Version:  version,
			Status:   "pending",
		},
	}
	s.activations[policyID] = append(s.activations[policyID], activation)
	writeJSON(w, http.StatusOK, []cloudlets.Activation{activation})
}

func (s *Server) handleListActivations(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.activations[policyID]
	if out == nil {
		out = []cloudlets.Activation{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")
	version := pathInt(r, "version")

	var rule cloudlets.MatchRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if rule.AkaRuleID != "" {
		writeError(w, http.StatusBadRequest, "akaRuleId must not be set by the client")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.findVersion(policyID, version)
	if v == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no version %d for policy %d", version, policyID))
		return
	}

	s.nextRuleID++
	rule.AkaRuleID = fmt.Sprintf("rule-%d", s.nextRuleID)
	v.MatchRules = append(v.MatchRules, rule)
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")
	version := pathInt(r, "version")
	ruleID := r.PathValue("ruleID")

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.findVersion(policyID, version)
	if v != nil {
		for _, rule := range v.MatchRules {
			if rule.AkaRuleID == ruleID {
				writeJSON(w, http.StatusOK, rule)
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no rule %s", ruleID))
}

func (s *Server) handleModifyRule(w http.ResponseWriter, r *http.Request) {
	policyID := pathInt(r, "policyID")
	version := pathInt(r, "version")
	ruleID := r.PathValue("ruleID")

	var rule cloudlets.MatchRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.findVersion(policyID, version)
	if v != nil {
		for i := range v.MatchRules {
			if v.MatchRules[i].AkaRuleID == ruleID {
				rule.AkaRuleID = ruleID
				v.MatchRules[i] = rule
				writeJSON(w, http.StatusOK, rule)
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no rule %s", ruleID))
}

// findVersion must be called with the lock held.
func (s *Server) findVersion(policyID, version int64) *cloudlets.PolicyVersion {
	for _, v := range s.versions[policyID] {
		if v.Version == version {
			return v
		}
	}
	return nil
}

func pathInt(r *http.Request, name string) int64 {
	n, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{
		"title":  http.StatusText(status),
		"detail": detail,
		"status": status,
	})
}
