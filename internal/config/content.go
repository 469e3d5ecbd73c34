package config

import (
	"strconv"

	"clapper/internal/textutil"
)

// snapshotScriptLimit bounds the script excerpt stored in the checkpoint.
// Full scripts can be arbitrarily long; the first hundred characters are
// enough to detect that the text changed between runs.
const snapshotScriptLimit = 100

// Content captures the creative inputs for one production run. The CLI
// builds it from flags, filling gaps from the loaded Config.
type Content struct {
	Script       string
	Name         string
	Platform     string
	Voice        string
	AvatarImage  string
	AvatarPreset string
	MusicStyle   string
	AddMusic     bool
}

// NewContent returns a Content seeded with this configuration's defaults.
// Script, Name, and AvatarImage have no defaults and stay empty.
func (c *Config) NewContent() Content {
	return Content{
		Platform:     c.Composition.Platform,
		Voice:        c.Voice.Voice,
		AvatarPreset: c.Avatar.Preset,
		MusicStyle:   c.Music.Style,
		AddMusic:     c.Music.Enabled,
	}
}

// Snapshot flattens the content into the map persisted in the production
// checkpoint. The script is truncated so checkpoints stay small while still
// detecting edits.
func (c Content) Snapshot() map[string]string {
	return map[string]string{
		"script":        textutil.Truncate(c.Script, snapshotScriptLimit),
		"platform":      c.Platform,
		"voice":         c.Voice,
		"avatar_image":  c.AvatarImage,
		"avatar_preset": c.AvatarPreset,
		"music_style":   c.MusicStyle,
		"add_music":     strconv.FormatBool(c.AddMusic),
	}
}
