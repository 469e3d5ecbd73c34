package config

import (
	"errors"
	"fmt"
	"strings"

	"clapper/internal/platform"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateComposition(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsRoot) == "" {
		return errors.New("paths.projects_root must be set")
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		return errors.New("paths.catalog_path must be set")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"voice.timeout_seconds":       c.Voice.TimeoutSeconds,
		"avatar.timeout_seconds":      c.Avatar.TimeoutSeconds,
		"music.timeout_seconds":       c.Music.TimeoutSeconds,
		"composition.timeout_seconds": c.Composition.TimeoutSeconds,
	})
}

func (c *Config) validateMusic() error {
	if c.Music.Enabled && c.Music.MaxDurationSeconds <= 0 {
		return errors.New("music.max_duration_seconds must be positive when music.enabled is true")
	}
	return nil
}

func (c *Config) validateComposition() error {
	if _, ok := platform.ProfileFor(c.Composition.Platform); !ok {
		return fmt.Errorf("composition.platform %q is not supported (choose one of: %s)",
			c.Composition.Platform, strings.Join(platform.Names(), ", "))
	}
	if c.Composition.MusicVolume <= 0 || c.Composition.MusicVolume > 1 {
		return errors.New("composition.music_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if len(c.Pipeline.CriticalConfigKeys) == 0 {
		return errors.New("pipeline.critical_config_keys must include at least one key")
	}
	if c.Pipeline.MinFreeSpaceGB < 0 {
		return errors.New("pipeline.min_free_space_gb must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
