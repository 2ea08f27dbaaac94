package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	ctx := context.Background()

	unlock, err := client.Lock(ctx)
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, DefaultLockName)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	// Contention: a second Lock must give up once its context expires.
	timeoutCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := client.Lock(timeoutCtx); err == nil {
		t.Error("expected second Lock to fail while the lock is held")
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_InitAddCommit(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	setIdentity(t)

	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	ctx := context.Background()

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if !client.IsRepo() {
		t.Fatal(".git directory not created")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add(ctx, "notes.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit(ctx, "first"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Nothing staged: no error, no new commit.
	if err := client.Commit(ctx, "empty"); err != nil {
		t.Fatalf("empty Commit failed: %v", err)
	}

	log, err := client.Log(ctx, "notes.json", 10)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(log) != 1 {
		t.Errorf("expected 1 commit, got %d: %v", len(log), log)
	}
}

func setIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "quicknotes")
	t.Setenv("GIT_AUTHOR_EMAIL", "quicknotes@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "quicknotes")
	t.Setenv("GIT_COMMITTER_EMAIL", "quicknotes@example.com")
}
