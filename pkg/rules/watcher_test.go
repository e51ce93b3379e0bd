package rules

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileWatcher_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fired atomic.Int64
	watcher := NewFileWatcher(path, nil)

	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func() { fired.Add(1) })
	}()

	// Give the watcher time to register before mutating the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"name":"changed"}`), 0o644); err != nil {
		t.Fatalf("failed to rewrite rule file: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if fired.Load() == 0 {
		t.Fatal("watcher never fired after file write")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v, want nil", err)
	}
}

func TestFileWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule.json")
	sibling := filepath.Join(dir, "other.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int64
	watcher := NewFileWatcher(path, nil)

	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func() { fired.Add(1) })
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(sibling, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("watcher fired %d times for a sibling file, want 0", fired.Load())
	}

	cancel()
	<-done
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	debounce := NewDebouncer(50 * time.Millisecond)
	defer debounce.Stop()

	var fired atomic.Int64
	for i := 0; i < 10; i++ {
		debounce.Trigger(func() { fired.Add(1) })
	}

	time.Sleep(300 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times for a burst, want 1", got)
	}
}
