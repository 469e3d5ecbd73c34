package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clapper/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CLAPPER_CONFIG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantProjects := filepath.Join(tempHome, ".local", "share", "clapper", "projects")
	if cfg.Paths.ProjectsRoot != wantProjects {
		t.Fatalf("unexpected projects root: got %q want %q", cfg.Paths.ProjectsRoot, wantProjects)
	}
	if cfg.Paths.CatalogPath != filepath.Join(tempHome, ".local", "share", "clapper", "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.Paths.CatalogPath)
	}
	if cfg.Voice.Binary != "edge-tts" {
		t.Fatalf("unexpected voice binary: %q", cfg.Voice.Binary)
	}
	if cfg.Voice.Voice != "en-US-AriaNeural" {
		t.Fatalf("unexpected default voice: %q", cfg.Voice.Voice)
	}
	if !cfg.Music.Enabled {
		t.Fatal("expected music enabled by default")
	}
	if cfg.Music.MaxDurationSeconds != 60 {
		t.Fatalf("unexpected music cap: %d", cfg.Music.MaxDurationSeconds)
	}
	if cfg.Composition.Platform != "youtube" {
		t.Fatalf("unexpected platform: %q", cfg.Composition.Platform)
	}
	if cfg.Composition.MusicVolume != 0.15 {
		t.Fatalf("unexpected music volume: %v", cfg.Composition.MusicVolume)
	}
	if !cfg.Pipeline.ValidateAssets {
		t.Fatal("expected asset validation enabled by default")
	}
	if cfg.Pipeline.VerifyChecksums {
		t.Fatal("expected checksum verification disabled by default")
	}
	wantKeys := []string{"script", "platform", "voice", "avatar_image"}
	gotKeys := cfg.CriticalKeys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("unexpected critical keys: %v", gotKeys)
	}
	for i, key := range wantKeys {
		if gotKeys[i] != key {
			t.Fatalf("critical key %d = %q, want %q", i, gotKeys[i], key)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ProjectsRoot, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.CatalogPath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clapper.toml")

	type payload struct {
		Voice struct {
			Voice string `toml:"voice"`
		} `toml:"voice"`
		Music struct {
			Enabled            bool `toml:"enabled"`
			MaxDurationSeconds int  `toml:"max_duration_seconds"`
		} `toml:"music"`
		Composition struct {
			Platform string `toml:"platform"`
		} `toml:"composition"`
		Pipeline struct {
			CriticalConfigKeys []string `toml:"critical_config_keys"`
		} `toml:"pipeline"`
	}
	custom := payload{}
	custom.Voice.Voice = "en-GB-RyanNeural"
	custom.Music.Enabled = false
	custom.Music.MaxDurationSeconds = 45
	custom.Composition.Platform = "TikTok"
	custom.Pipeline.CriticalConfigKeys = []string{"Script", "script", " platform "}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Voice.Voice != "en-GB-RyanNeural" {
		t.Fatalf("expected voice from file, got %q", cfg.Voice.Voice)
	}
	if cfg.Music.Enabled {
		t.Fatal("expected music disabled from file")
	}
	if cfg.Music.MaxDurationSeconds != 45 {
		t.Fatalf("expected music cap 45, got %d", cfg.Music.MaxDurationSeconds)
	}
	if cfg.Composition.Platform != "tiktok" {
		t.Fatalf("expected platform normalized to tiktok, got %q", cfg.Composition.Platform)
	}
	keys := cfg.CriticalKeys()
	if len(keys) != 2 || keys[0] != "script" || keys[1] != "platform" {
		t.Fatalf("expected deduplicated normalized keys, got %v", keys)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clapper.toml")

	type payload struct {
		Paths struct {
			ProjectsRoot string `toml:"projects_root"`
		} `toml:"paths"`
		Logging struct {
			Level string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.ProjectsRoot = filepath.Join(tempDir, "from-file")
	custom.Logging.Level = "info"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	override := filepath.Join(tempDir, "from-env")
	t.Setenv("CLAPPER_PROJECTS_ROOT", override)
	t.Setenv("CLAPPER_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.ProjectsRoot != override {
		t.Errorf("expected projects root from env, got %q", cfg.Paths.ProjectsRoot)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadHonorsConfigEnvVar(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[voice]\nvoice = \"en-AU-NatashaNeural\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLAPPER_CONFIG", configPath)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected CLAPPER_CONFIG to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Voice.Voice != "en-AU-NatashaNeural" {
		t.Fatalf("unexpected voice: %q", cfg.Voice.Voice)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "edge-tts") {
		t.Fatalf("sample config missing voice binary default: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Composition.Platform != "youtube" {
		t.Fatalf("sample platform = %q", cfg.Composition.Platform)
	}
	if cfg.Composition.MusicVolume != 0.15 {
		t.Fatalf("sample music volume = %v", cfg.Composition.MusicVolume)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Composition.Platform = "vimeo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported platform")
	}

	cfg = config.Default()
	cfg.Composition.MusicVolume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for music volume above 1")
	}

	cfg = config.Default()
	cfg.Voice.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = config.Default()
	cfg.Pipeline.CriticalConfigKeys = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty critical key list")
	}
}

func TestContentSnapshot(t *testing.T) {
	cfg := config.Default()
	content := cfg.NewContent()
	if content.Voice != "en-US-AriaNeural" {
		t.Fatalf("NewContent voice = %q", content.Voice)
	}
	if content.Platform != "youtube" {
		t.Fatalf("NewContent platform = %q", content.Platform)
	}
	if !content.AddMusic {
		t.Fatal("NewContent should inherit music.enabled")
	}

	content.Script = strings.Repeat("a", 150)
	content.AvatarImage = "face.png"
	content.AddMusic = false
	snap := content.Snapshot()
	if len(snap["script"]) != 100 {
		t.Fatalf("script excerpt length = %d, want 100", len(snap["script"]))
	}
	if snap["avatar_image"] != "face.png" {
		t.Fatalf("avatar_image = %q", snap["avatar_image"])
	}
	if snap["add_music"] != "false" {
		t.Fatalf("add_music = %q", snap["add_music"])
	}
	if snap["platform"] != "youtube" {
		t.Fatalf("platform = %q", snap["platform"])
	}
}
