package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsRoot string `toml:"projects_root"`
	CatalogPath  string `toml:"catalog_path"`
	LogDir       string `toml:"log_dir"`
}

// Voice contains text-to-speech synthesis configuration.
type Voice struct {
	Binary         string `toml:"binary"`
	Voice          string `toml:"voice"`
	Rate           string `toml:"rate"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Avatar contains talking-head renderer configuration.
type Avatar struct {
	Binary         string `toml:"binary"`
	Preset         string `toml:"preset"`
	ResultsDir     string `toml:"results_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Music contains background music generation configuration.
type Music struct {
	Enabled            bool   `toml:"enabled"`
	Binary             string `toml:"binary"`
	Style              string `toml:"style"`
	MaxDurationSeconds int    `toml:"max_duration_seconds"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
}

// Composition contains final video assembly configuration.
type Composition struct {
	FFmpegBinary   string  `toml:"ffmpeg_binary"`
	FFprobeBinary  string  `toml:"ffprobe_binary"`
	Platform       string  `toml:"platform"`
	MusicVolume    float64 `toml:"music_volume"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Pipeline contains checkpoint and resumption policy.
type Pipeline struct {
	// CriticalConfigKeys are the snapshot keys whose change invalidates an
	// existing checkpoint. Empty entries are dropped during normalization.
	CriticalConfigKeys []string `toml:"critical_config_keys"`
	// ValidateAssets controls whether completed assets must still exist on
	// disk to be reused.
	ValidateAssets bool `toml:"validate_assets"`
	// VerifyChecksums additionally re-hashes asset files on resume and
	// regenerates any whose contents changed since the checkpoint.
	VerifyChecksums bool `toml:"verify_checksums"`
	MinFreeSpaceGB  int  `toml:"min_free_space_gb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Clapper.
//
// Configuration sections by subsystem:
//   - Paths: projects root, catalog database, and log directory
//   - Voice: text-to-speech binary and voice selection
//   - Avatar: talking-head renderer binary and preset
//   - Music: background music generator and duration policy
//   - Composition: ffmpeg/ffprobe binaries, target platform, mix levels
//   - Pipeline: checkpoint validation and resumption policy
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Voice       Voice       `toml:"voice"`
	Avatar      Avatar      `toml:"avatar"`
	Music       Music       `toml:"music"`
	Composition Composition `toml:"composition"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clapper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A .env file in the
// working directory is applied to the process environment first so that
// CLAPPER_* overrides work without exporting.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CLAPPER_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/clapper/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clapper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories Clapper needs before a run.
// The avatar results directory is created on a best-effort basis because the
// rendering tool recreates it on demand.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ProjectsRoot, c.Paths.LogDir}
	if dir := filepath.Dir(c.Paths.CatalogPath); dir != "" && dir != "." {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Avatar.ResultsDir) != "" {
		_ = os.MkdirAll(c.Avatar.ResultsDir, 0o755)
	}
	return nil
}

// CriticalKeys returns a copy of the snapshot keys that invalidate a
// checkpoint when changed.
func (c *Config) CriticalKeys() []string {
	keys := make([]string, len(c.Pipeline.CriticalConfigKeys))
	copy(keys, c.Pipeline.CriticalConfigKeys)
	return keys
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
