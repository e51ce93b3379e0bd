package cache

import "fmt"

// NotCachedError is returned when a policy name is not present in the local
// cache.
type NotCachedError struct {
	Name string
}

func (e *NotCachedError) Error() string {
	return fmt.Sprintf("policy %q is not in the local cache; run \"cloudlet setup\" first", e.Name)
}

// StoreError wraps a cache read or write failure.
type StoreError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache %s failed for %s: %v", e.Operation, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
