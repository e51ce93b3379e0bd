package cache

import (
	"errors"
	"testing"
)

func TestRegistry_ReplaceAndAll(t *testing.T) {
	registry := NewRegistry()

	registry.Replace([]Record{
		{Name: "zeta", PolicyID: 2},
		{Name: "alpha", PolicyID: 1},
	})

	all := registry.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d records, want 2", len(all))
	}
	if all[0].Name != "alpha" || all[1].Name != "zeta" {
		t.Errorf("All() order = [%s %s], want sorted by name", all[0].Name, all[1].Name)
	}
}

func TestRegistry_ReplaceDropsOldEntries(t *testing.T) {
	registry := NewRegistry()
	registry.Replace([]Record{{Name: "old", PolicyID: 1}})
	registry.Replace([]Record{{Name: "new", PolicyID: 2}})

	if _, err := registry.Get("old"); err == nil {
		t.Error("Get(old) error = nil, want NotCachedError after replace")
	}
	if _, err := registry.Get("new"); err != nil {
		t.Errorf("Get(new) error = %v, want nil", err)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("ghost")
	var notCached *NotCachedError
	if !errors.As(err, &notCached) {
		t.Fatalf("Get() error type = %T, want *NotCachedError", err)
	}
}
