package cloudlets

import (
	"errors"
	"fmt"
)

// ErrPolicyNotFound is returned when the service reports a 404 for a policy
// or version lookup.
var ErrPolicyNotFound = errors.New("policy not found")

// APIError is the structured problem document returned by the Cloudlets API
// on failure.
type APIError struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Status    int    `json:"status,omitempty"`
	ErrorCode int    `json:"errorCode,omitempty"`

	// Operation is the client operation that failed, e.g. "listPolicies".
	Operation string `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("cloudlets %s: %s (status %d)", e.Operation, msg, e.Status)
}

// Is lets callers match 404 responses against ErrPolicyNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrPolicyNotFound && e.Status == 404
}
