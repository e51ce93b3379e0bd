package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one audit record of a mutating command.
type Entry struct {
	// ID is a generated unique identifier.
	ID string `json:"id"`

	// Time is when the command finished.
	Time time.Time `json:"time"`

	// Command is the CLI command name, e.g. "create-version".
	Command string `json:"command"`

	// PolicyName and PolicyID identify the affected policy. PolicyName is
	// empty for account-wide operations like setup.
	PolicyName string `json:"policyName,omitempty"`
	PolicyID   int64  `json:"policyId,omitempty"`

	// Version is the affected policy version, when applicable.
	Version int64 `json:"version,omitempty"`

	// Network is the activation target, when applicable.
	Network string `json:"network,omitempty"`

	// RuleID is the affected rule, when applicable.
	RuleID string `json:"ruleId,omitempty"`

	// Detail is a short human-readable summary.
	Detail string `json:"detail,omitempty"`

	// Success records whether the remote call succeeded; Error carries the
	// failure text otherwise.
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewEntry builds an entry with a fresh id and the current time.
func NewEntry(command string) *Entry {
	return &Entry{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Command: command,
		Success: true,
	}
}

// Query filters history records. Zero fields match everything.
type Query struct {
	// PolicyName restricts to one policy.
	PolicyName string

	// Command restricts to one command name.
	Command string

	// Since restricts to records at or after the given time.
	Since time.Time

	// Limit caps the number of returned records; 0 means no cap.
	// Records are returned newest first.
	Limit int
}

// Storage persists history entries.
type Storage interface {
	// Append stores one entry.
	Append(ctx context.Context, entry *Entry) error

	// Find returns entries matching the query, newest first.
	Find(ctx context.Context, query Query) ([]*Entry, error)

	// Close releases backend resources.
	Close() error
}

// StorageError wraps a backend failure.
type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
