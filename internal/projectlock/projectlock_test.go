package projectlock_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clapper/internal/projectlock"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	lock, err := projectlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}

	if _, err := projectlock.Acquire(dir); !errors.Is(err, projectlock.ErrHeld) {
		t.Fatalf("expected ErrHeld on contention, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := projectlock.Acquire(dir)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestAcquireCreatesProjectDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "brand", "new", "project")
	lock, err := projectlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected project directory to exist: %v", err)
	}
}
