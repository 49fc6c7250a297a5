package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmitsForSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	events := make(chan FileEvent, 1)

	w, err := NewWatcher(events, 50*time.Millisecond, ".yaml", ".csv")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected event for unsupported file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "songs.CSV"), []byte("title\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Path != dir {
			t.Errorf("expected event for %s, got %s", dir, ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file event")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(make(chan FileEvent, 1), time.Millisecond, ".yaml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	w.Stop()
	w.Stop()
}
