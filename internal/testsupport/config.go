package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clapper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Disk space enforcement is off so tests never depend on host capacity.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProjectsRoot = filepath.Join(base, "projects")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "clapper.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Avatar.ResultsDir = filepath.Join(base, "avatar-results")
	cfgVal.Pipeline.MinFreeSpaceGB = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithMusicDisabled turns background music off on the test config.
func WithMusicDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Music.Enabled = false
	}
}

// WithChecksumVerification enables content re-verification on resume.
func WithChecksumVerification() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.VerifyChecksums = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default clapper external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"edge-tts", "sadtalker", "musicgen", "ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ProjectsRoot)
}
