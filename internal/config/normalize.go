package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVoice()
	if err := c.normalizeAvatar(); err != nil {
		return err
	}
	c.normalizeMusic()
	c.normalizeComposition()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CLAPPER_PROJECTS_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ProjectsRoot = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.ProjectsRoot, err = expandPath(c.Paths.ProjectsRoot); err != nil {
		return fmt.Errorf("paths.projects_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVoice() {
	c.Voice.Binary = strings.TrimSpace(c.Voice.Binary)
	if c.Voice.Binary == "" {
		c.Voice.Binary = defaultVoiceBinary
	}
	c.Voice.Voice = strings.TrimSpace(c.Voice.Voice)
	if c.Voice.Voice == "" {
		c.Voice.Voice = defaultVoiceID
	}
	c.Voice.Rate = strings.TrimSpace(c.Voice.Rate)
	if c.Voice.Rate == "" {
		c.Voice.Rate = defaultVoiceRate
	}
	if c.Voice.TimeoutSeconds <= 0 {
		c.Voice.TimeoutSeconds = defaultVoiceTimeout
	}
}

func (c *Config) normalizeAvatar() error {
	c.Avatar.Binary = strings.TrimSpace(c.Avatar.Binary)
	if c.Avatar.Binary == "" {
		c.Avatar.Binary = defaultAvatarBinary
	}
	c.Avatar.Preset = strings.TrimSpace(c.Avatar.Preset)
	if c.Avatar.Preset == "" {
		c.Avatar.Preset = defaultAvatarPreset
	}
	if strings.TrimSpace(c.Avatar.ResultsDir) == "" {
		c.Avatar.ResultsDir = defaultAvatarResultsDir
	}
	var err error
	if c.Avatar.ResultsDir, err = expandPath(c.Avatar.ResultsDir); err != nil {
		return fmt.Errorf("avatar.results_dir: %w", err)
	}
	if c.Avatar.TimeoutSeconds <= 0 {
		c.Avatar.TimeoutSeconds = defaultAvatarTimeout
	}
	return nil
}

func (c *Config) normalizeMusic() {
	c.Music.Binary = strings.TrimSpace(c.Music.Binary)
	if c.Music.Binary == "" {
		c.Music.Binary = defaultMusicBinary
	}
	c.Music.Style = strings.TrimSpace(c.Music.Style)
	if c.Music.Style == "" {
		c.Music.Style = defaultMusicStyle
	}
	if c.Music.MaxDurationSeconds <= 0 {
		c.Music.MaxDurationSeconds = defaultMusicMaxSeconds
	}
	if c.Music.TimeoutSeconds <= 0 {
		c.Music.TimeoutSeconds = defaultMusicTimeout
	}
}

func (c *Config) normalizeComposition() {
	c.Composition.FFmpegBinary = strings.TrimSpace(c.Composition.FFmpegBinary)
	if c.Composition.FFmpegBinary == "" {
		c.Composition.FFmpegBinary = defaultFFmpegBinary
	}
	c.Composition.FFprobeBinary = strings.TrimSpace(c.Composition.FFprobeBinary)
	if c.Composition.FFprobeBinary == "" {
		c.Composition.FFprobeBinary = defaultFFprobeBinary
	}
	c.Composition.Platform = strings.ToLower(strings.TrimSpace(c.Composition.Platform))
	if c.Composition.Platform == "" {
		c.Composition.Platform = defaultPlatform
	}
	if c.Composition.MusicVolume <= 0 {
		c.Composition.MusicVolume = defaultMusicVolume
	}
	if c.Composition.TimeoutSeconds <= 0 {
		c.Composition.TimeoutSeconds = defaultCompositionTimeout
	}
}

func (c *Config) normalizePipeline() {
	keys := make([]string, 0, len(c.Pipeline.CriticalConfigKeys))
	seen := make(map[string]struct{}, len(c.Pipeline.CriticalConfigKeys))
	for _, key := range c.Pipeline.CriticalConfigKeys {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keys = append(keys, normalized)
	}
	if len(keys) == 0 {
		keys = Default().Pipeline.CriticalConfigKeys
	}
	c.Pipeline.CriticalConfigKeys = keys
	if c.Pipeline.MinFreeSpaceGB < 0 {
		c.Pipeline.MinFreeSpaceGB = 0
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("CLAPPER_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.TrimSpace(value)
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
