package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// storageBackends exercises both backends through the same cases.
func storageBackends(t *testing.T) map[string]Storage {
	t.Helper()

	sqliteStore, err := NewSQLiteStorage(&SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v, want nil", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Storage{
		"sqlite": sqliteStore,
		"memory": NewMemoryStorage(),
	}
}

func seedEntries(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{
			ID: "e1", Time: base, Command: "setup",
			Detail: "cached 12 policies", Success: true,
		},
		{
			ID: "e2", Time: base.Add(time.Hour), Command: "create-version",
			PolicyName: "mobile-block", PolicyID: 1234, Version: 4, Success: true,
		},
		{
			ID: "e3", Time: base.Add(2 * time.Hour), Command: "activate",
			PolicyName: "mobile-block", PolicyID: 1234, Version: 4,
			Network: "staging", Success: true,
		},
		{
			ID: "e4", Time: base.Add(3 * time.Hour), Command: "add-rule",
			PolicyName: "country-allow", PolicyID: 1235, Version: 1,
			Success: false, Error: "rule validation failed",
		},
	}

	for _, entry := range entries {
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append(%s) error = %v, want nil", entry.ID, err)
		}
	}
}

func TestStorage_FindAll_NewestFirst(t *testing.T) {
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			seedEntries(t, store)

			entries, err := store.Find(context.Background(), Query{})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(entries) != 4 {
				t.Fatalf("Find() returned %d entries, want 4", len(entries))
			}
			if entries[0].ID != "e4" || entries[3].ID != "e1" {
				t.Errorf("order = [%s ... %s], want newest first", entries[0].ID, entries[3].ID)
			}
		})
	}
}

func TestStorage_FindByPolicy(t *testing.T) {
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			seedEntries(t, store)

			entries, err := store.Find(context.Background(), Query{PolicyName: "mobile-block"})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(entries) != 2 {
				t.Fatalf("Find() returned %d entries, want 2", len(entries))
			}
			for _, entry := range entries {
				if entry.PolicyName != "mobile-block" {
					t.Errorf("entry %s PolicyName = %q, want mobile-block", entry.ID, entry.PolicyName)
				}
			}
		})
	}
}

func TestStorage_FindByCommandAndLimit(t *testing.T) {
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			seedEntries(t, store)

			entries, err := store.Find(context.Background(), Query{Command: "activate"})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(entries) != 1 || entries[0].Network != "staging" {
				t.Fatalf("Find(activate) = %+v, want one staging activation", entries)
			}

			limited, err := store.Find(context.Background(), Query{Limit: 2})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(limited) != 2 {
				t.Errorf("Find(limit=2) returned %d entries, want 2", len(limited))
			}
		})
	}
}

func TestStorage_FindSince(t *testing.T) {
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			seedEntries(t, store)

			since := time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC)
			entries, err := store.Find(context.Background(), Query{Since: since})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(entries) != 2 {
				t.Fatalf("Find(since) returned %d entries, want 2", len(entries))
			}
		})
	}
}

func TestStorage_FailureRecorded(t *testing.T) {
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			seedEntries(t, store)

			entries, err := store.Find(context.Background(), Query{Command: "add-rule"})
			if err != nil {
				t.Fatalf("Find() error = %v, want nil", err)
			}
			if len(entries) != 1 {
				t.Fatalf("Find() returned %d entries, want 1", len(entries))
			}
			if entries[0].Success {
				t.Error("entry Success = true, want false")
			}
			if entries[0].Error != "rule validation failed" {
				t.Errorf("entry Error = %q, want failure text", entries[0].Error)
			}
		})
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStorage(&SQLiteConfig{Path: path, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v, want nil", err)
	}

	entry := NewEntry("setup")
	entry.Detail = "first run"
	if err := store.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append() error = %v, want nil", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v, want nil", err)
	}

	reopened, err := NewSQLiteStorage(&SQLiteConfig{Path: path, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("reopen error = %v, want nil", err)
	}
	defer reopened.Close()

	entries, err := reopened.Find(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Find() after reopen error = %v, want nil", err)
	}
	if len(entries) != 1 || entries[0].Detail != "first run" {
		t.Errorf("entries after reopen = %+v, want the persisted record", entries)
	}
}

func TestNewEntry_Defaults(t *testing.T) {
	entry := NewEntry("activate")

	if entry.ID == "" {
		t.Error("NewEntry() ID is empty, want generated id")
	}
	if entry.Command != "activate" {
		t.Errorf("Command = %q, want activate", entry.Command)
	}
	if !entry.Success {
		t.Error("Success = false, want true by default")
	}
	if entry.Time.IsZero() {
		t.Error("Time is zero, want current time")
	}
}
