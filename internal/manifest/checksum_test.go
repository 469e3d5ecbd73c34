package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"clapper/internal/manifest"
)

func TestFingerprintStableAndSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.bin")
	if err := os.WriteFile(path, []byte("same content"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := manifest.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	second, err := manifest.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprint not stable: %q vs %q", first, second)
	}
	if len(first) != 16 {
		t.Fatalf("expected 16 chars, got %d (%q)", len(first), first)
	}

	if err := os.WriteFile(path, []byte("different content"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := manifest.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if third == first {
		t.Fatal("expected fingerprint to change with content")
	}
}

func TestFingerprintMissingFile(t *testing.T) {
	if _, err := manifest.Fingerprint(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
