package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clapper/internal/config"
	"clapper/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	workDir    string
}

// setupCLIEnv isolates HOME, builds a test configuration, and writes it
// where the CLI default lookup finds it. Tests that mutate env.cfg afterward
// must call writeTestConfig again before invoking the CLI.
func setupCLIEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	workDir := t.TempDir()
	homeDir := filepath.Join(workDir, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CLAPPER_CONFIG", "")

	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "clapper", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		workDir:    workDir,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// installProductionStubs writes executable stand-ins for the external tools
// a full production shells out to, each faithful enough to satisfy artifact
// validation, points the config at them by absolute path, and rewrites the
// config file so the CLI picks them up.
func installProductionStubs(t *testing.T, env *cliTestEnv) {
	t.Helper()

	cfg := env.cfg
	binDir := filepath.Join(testsupport.BaseDir(cfg), "tools")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir tools dir: %v", err)
	}

	voiceStub := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--write-media" ]; then out="$a"; fi
  prev="$a"
done
printf 'narration audio' > "$out"
`
	avatarStub := `#!/bin/sh
dir=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--result_dir" ]; then dir="$a"; fi
  prev="$a"
done
mkdir -p "$dir/render"
printf 'talking head video' > "$dir/render/result.mp4"
`
	musicStub := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output" ]; then out="$a"; fi
  prev="$a"
done
printf 'background music' > "$out"
`
	ffmpegStub := `#!/bin/sh
out=""
for a in "$@"; do out="$a"; done
printf 'composed video' > "$out"
`
	ffprobeStub := `#!/bin/sh
printf '%s' '{"streams":[{"index":0,"codec_type":"video","width":1920,"height":1080},{"index":1,"codec_type":"audio","duration":"12.5"}],"format":{"duration":"12.5"}}'
`

	stubs := map[string]string{
		"edge-tts":  voiceStub,
		"sadtalker": avatarStub,
		"musicgen":  musicStub,
		"ffmpeg":    ffmpegStub,
		"ffprobe":   ffprobeStub,
	}
	for name, script := range stubs {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	cfg.Voice.Binary = filepath.Join(binDir, "edge-tts")
	cfg.Avatar.Binary = filepath.Join(binDir, "sadtalker")
	cfg.Music.Binary = filepath.Join(binDir, "musicgen")
	cfg.Composition.FFmpegBinary = filepath.Join(binDir, "ffmpeg")
	cfg.Composition.FFprobeBinary = filepath.Join(binDir, "ffprobe")

	writeTestConfig(t, env.configPath, cfg)
}

// writeProductionInputs creates a script file and avatar image for produce
// invocations and returns their paths.
func writeProductionInputs(t *testing.T, dir string) (string, string) {
	t.Helper()
	scriptPath := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("Hello from the test newsroom."), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	imagePath := filepath.Join(dir, "anchor.png")
	if err := os.WriteFile(imagePath, bytes.Repeat([]byte{0x89}, 128), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return scriptPath, imagePath
}
