package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clapper/internal/catalog"
	"clapper/internal/config"
	"clapper/internal/logging"
	"clapper/internal/manifest"
	"clapper/internal/platform"
	"clapper/internal/services/avatar"
	"clapper/internal/services/compositor"
	"clapper/internal/services/music"
	"clapper/internal/services/voice"
)

// VoiceSynthesizer turns script text into a narration audio file.
type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, script, voiceID, outputDir string) (string, error)
}

// AvatarRenderer produces a talking-head video from a still image and audio.
type AvatarRenderer interface {
	Render(ctx context.Context, imagePath, audioPath, preset, outputDir string) (string, error)
}

// MusicComposer generates a background music track for the given style.
type MusicComposer interface {
	Compose(ctx context.Context, style string, durationSeconds int, outputDir string) (string, error)
}

// Compositor assembles the final platform-formatted video.
type Compositor interface {
	Compose(ctx context.Context, avatarVideo, musicPath string, profile platform.Profile, outputPath string) (string, error)
}

// CompletionRecorder persists finished productions. The catalog store
// implements it; a nil recorder disables cataloging.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, p catalog.Production) (int64, error)
}

// Generators bundles the external tool adapters the Producer drives.
type Generators struct {
	Voice      VoiceSynthesizer
	Avatar     AvatarRenderer
	Music      MusicComposer
	Compositor Compositor
}

// Producer coordinates checkpointed production runs.
type Producer struct {
	cfg     *config.Config
	gens    Generators
	logger  *slog.Logger
	catalog CompletionRecorder
}

// Option configures optional Producer behavior.
type Option func(*Producer)

// WithCatalog records finished productions in the given catalog. Catalog
// failures log a warning and never fail a run.
func WithCatalog(recorder CompletionRecorder) Option {
	return func(p *Producer) {
		p.catalog = recorder
	}
}

// NewProducer constructs a Producer from its collaborators.
func NewProducer(cfg *config.Config, gens Generators, logger *slog.Logger, opts ...Option) (*Producer, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if gens.Voice == nil || gens.Avatar == nil || gens.Compositor == nil {
		return nil, errors.New("voice, avatar, and compositor generators are required")
	}
	if gens.Music == nil && cfg.Music.Enabled {
		return nil, errors.New("music generator is required while music is enabled")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Producer{
		cfg:    cfg,
		gens:   gens,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// FromConfig builds a Producer backed by the real tool adapters named in the
// configuration.
func FromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Producer, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	voiceClient, err := voice.New(cfg.Voice.Binary, cfg.Voice.Rate, cfg.Voice.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	avatarClient, err := avatar.New(cfg.Avatar.Binary, cfg.Avatar.ResultsDir, cfg.Avatar.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	musicClient, err := music.New(cfg.Music.Binary, cfg.Music.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	compositorClient, err := compositor.New(cfg.Composition.FFmpegBinary, cfg.Composition.FFprobeBinary, cfg.Composition.MusicVolume, cfg.Composition.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	return NewProducer(cfg, Generators{
		Voice:      voiceClient,
		Avatar:     avatarClient,
		Music:      musicClient,
		Compositor: compositorClient,
	}, logger, opts...)
}

// StepOutcome describes how a run satisfied one pipeline step.
type StepOutcome string

const (
	// OutcomeGenerated means the generator ran and produced a fresh asset.
	OutcomeGenerated StepOutcome = "generated"
	// OutcomeReused means a checkpointed asset was still valid and reused.
	OutcomeReused StepOutcome = "reused"
	// OutcomeSkipped means the step was intentionally not run.
	OutcomeSkipped StepOutcome = "skipped"
)

// StepResult reports one step of a finished run.
type StepResult struct {
	Step      manifest.Step
	Outcome   StepOutcome
	AssetPath string
}

// Result summarizes a successful production run. ConfigChanged reports that
// the run resumed over a checkpoint written with different critical
// configuration, so reused assets may not match the requested content.
type Result struct {
	RunID           string
	ProjectName     string
	ProjectDir      string
	Platform        string
	FinalPath       string
	DurationSeconds float64
	Elapsed         time.Duration
	ConfigChanged   bool
	Steps           []StepResult
}
