package cache

import (
	"sort"
	"sync"
)

// Registry is a thread-safe in-memory name index over cache records.
// Replace swaps the whole map atomically so readers never observe a partial
// refresh.
type Registry struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]Record)}
}

// Replace swaps the registry contents with the given records.
func (r *Registry) Replace(records []Record) {
	next := make(map[string]Record, len(records))
	for _, rec := range records {
		next[rec.Name] = rec
	}

	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
}

// Get looks up a record by policy name.
func (r *Registry) Get(name string) (Record, error) {
	r.mu.RLock()
	rec, ok := r.records[name]
	r.mu.RUnlock()

	if !ok {
		return Record{}, &NotCachedError{Name: name}
	}
	return rec, nil
}

// Resolve maps a policy name to its remote identifier.
func (r *Registry) Resolve(name string) (int64, error) {
	rec, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	return rec.PolicyID, nil
}

// All returns every record sorted by name.
func (r *Registry) All() []Record {
	r.mu.RLock()
	records := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records
}

// Len returns the number of cached policies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
