// Package platform defines the publishing destinations a production can
// target and the output constraints each one imposes.
//
// Profiles are deliberately static. The set of supported destinations, their
// aspect ratios, and their duration ceilings change rarely enough that a
// lookup table beats configuration; callers that accept a platform name
// should validate it with ProfileFor before starting work.
package platform

import "strings"

// Profile describes the output constraints for one publishing destination.
type Profile struct {
	Name               string
	AspectRatio        string
	Width              int
	Height             int
	MaxDurationSeconds int
}

// Vertical reports whether the profile renders portrait video.
func (p Profile) Vertical() bool {
	return p.Height > p.Width
}

// DefaultName is the destination assumed when none is configured.
const DefaultName = "youtube"

var profiles = map[string]Profile{
	"youtube": {
		Name:               "youtube",
		AspectRatio:        "16:9",
		Width:              1920,
		Height:             1080,
		MaxDurationSeconds: 600,
	},
	"shorts": {
		Name:               "shorts",
		AspectRatio:        "9:16",
		Width:              1080,
		Height:             1920,
		MaxDurationSeconds: 60,
	},
	"tiktok": {
		Name:               "tiktok",
		AspectRatio:        "9:16",
		Width:              1080,
		Height:             1920,
		MaxDurationSeconds: 180,
	},
	"instagram": {
		Name:               "instagram",
		AspectRatio:        "9:16",
		Width:              1080,
		Height:             1920,
		MaxDurationSeconds: 90,
	},
}

var allNames = []string{"youtube", "shorts", "tiktok", "instagram"}

// ProfileFor maps a platform name onto its profile. Lookup is
// case-insensitive and tolerates surrounding whitespace.
func ProfileFor(name string) (Profile, bool) {
	profile, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	return profile, ok
}

// ProfileOrDefault returns the profile for name, falling back to the
// default destination when the name is unknown or empty.
func ProfileOrDefault(name string) Profile {
	if profile, ok := ProfileFor(name); ok {
		return profile
	}
	return profiles[DefaultName]
}

// Names returns the supported platform names in display order.
func Names() []string {
	out := make([]string, len(allNames))
	copy(out, allNames)
	return out
}
