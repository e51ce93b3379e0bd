package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage is an in-memory Storage backend used in tests and when
// persistence is disabled.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append stores one entry.
func (s *MemoryStorage) Append(ctx context.Context, entry *Entry) error {
	copied := *entry

	s.mu.Lock()
	s.entries = append(s.entries, &copied)
	s.mu.Unlock()
	return nil
}

// Find returns entries matching the query, newest first.
func (s *MemoryStorage) Find(ctx context.Context, query Query) ([]*Entry, error) {
	s.mu.RLock()
	matched := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if query.PolicyName != "" && entry.PolicyName != query.PolicyName {
			continue
		}
		if query.Command != "" && entry.Command != query.Command {
			continue
		}
		if !query.Since.IsZero() && entry.Time.Before(query.Since) {
			continue
		}
		copied := *entry
		matched = append(matched, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Time.After(matched[j].Time)
	})

	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}
