package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kamerdata/kamerarchief/internal/dataset"
)

func TestReloadAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dataset.MembersFile)
	if err := os.WriteFile(path, []byte("full_name,last_name,party,start_date,end_date\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var reloads atomic.Int32
	w := New(dir, func() error {
		reloads.Add(1)
		return nil
	}, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	// A burst of writes should collapse into one reload.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("full_name,last_name,party,start_date,end_date\nA,A,P,1-1-2020,\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	deadline := time.Now().Add(10 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}
	if got := reloads.Load(); got != 1 {
		t.Fatalf("reloads = %d, want 1", got)
	}
}

func TestUnrelatedFilesIgnored(t *testing.T) {
	dir := t.TempDir()

	var reloads atomic.Int32
	w := New(dir, func() error {
		reloads.Add(1)
		return nil
	}, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(3 * time.Second)
	if got := reloads.Load(); got != 0 {
		t.Fatalf("reloads = %d, want 0 for unrelated file", got)
	}
}

func TestStartFailsOnMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), func() error { return nil },
		slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
