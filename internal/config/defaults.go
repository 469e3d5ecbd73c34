package config

const (
	defaultProjectsRoot       = "~/.local/share/clapper/projects"
	defaultCatalogPath        = "~/.local/share/clapper/catalog.db"
	defaultLogDir             = "~/.local/share/clapper/logs"
	defaultVoiceBinary        = "edge-tts"
	defaultVoiceID            = "en-US-AriaNeural"
	defaultVoiceRate          = "+0%"
	defaultVoiceTimeout       = 300
	defaultAvatarBinary       = "sadtalker"
	defaultAvatarPreset       = "news_anchor"
	defaultAvatarResultsDir   = "~/.cache/clapper/avatar_results"
	defaultAvatarTimeout      = 1800
	defaultMusicBinary        = "musicgen"
	defaultMusicStyle         = "corporate"
	defaultMusicMaxSeconds    = 60
	defaultMusicTimeout       = 600
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultPlatform           = "youtube"
	defaultMusicVolume        = 0.15
	defaultCompositionTimeout = 900
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultMinFreeSpaceGB     = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsRoot: defaultProjectsRoot,
			CatalogPath:  defaultCatalogPath,
			LogDir:       defaultLogDir,
		},
		Voice: Voice{
			Binary:         defaultVoiceBinary,
			Voice:          defaultVoiceID,
			Rate:           defaultVoiceRate,
			TimeoutSeconds: defaultVoiceTimeout,
		},
		Avatar: Avatar{
			Binary:         defaultAvatarBinary,
			Preset:         defaultAvatarPreset,
			ResultsDir:     defaultAvatarResultsDir,
			TimeoutSeconds: defaultAvatarTimeout,
		},
		Music: Music{
			Enabled:            true,
			Binary:             defaultMusicBinary,
			Style:              defaultMusicStyle,
			MaxDurationSeconds: defaultMusicMaxSeconds,
			TimeoutSeconds:     defaultMusicTimeout,
		},
		Composition: Composition{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			Platform:       defaultPlatform,
			MusicVolume:    defaultMusicVolume,
			TimeoutSeconds: defaultCompositionTimeout,
		},
		Pipeline: Pipeline{
			CriticalConfigKeys: []string{"script", "platform", "voice", "avatar_image"},
			ValidateAssets:     true,
			VerifyChecksums:    false,
			MinFreeSpaceGB:     defaultMinFreeSpaceGB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
