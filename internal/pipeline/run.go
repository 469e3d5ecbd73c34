package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clapper/internal/catalog"
	"clapper/internal/config"
	"clapper/internal/logging"
	"clapper/internal/manifest"
	"clapper/internal/media/ffprobe"
	"clapper/internal/platform"
	"clapper/internal/preflight"
	"clapper/internal/projectlock"
	"clapper/internal/services"
	"clapper/internal/textutil"
)

const (
	musicDurationBufferSeconds  = 5
	defaultMusicDurationSeconds = 30
)

// Run produces a video for the given content inside projectDir, resuming from
// the first incomplete step when a checkpoint exists. forceRestart discards
// the checkpoint first. The returned Result reports how each step was
// satisfied along with the final video path.
func (p *Producer) Run(ctx context.Context, projectDir string, content config.Content, forceRestart bool) (*Result, error) {
	start := time.Now()
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if content.AddMusic && p.gens.Music == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "run", "music requested but no music generator is configured", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithProject(ctx, content.Name)
	ctx = services.WithRunID(ctx, runID)
	runLogger := logging.WithContext(ctx, p.logger)

	lock, err := projectlock.Acquire(projectDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "lock", "another process owns this project", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			runLogger.Warn("could not release project lock", logging.Error(err))
		}
	}()

	if check := preflight.CheckFreeSpace("project storage", projectDir, p.cfg.Pipeline.MinFreeSpaceGB); !check.Passed {
		return nil, services.Wrap(services.ErrConfiguration, "", "preflight", check.Detail, nil)
	}

	store, err := manifest.LoadOrCreate(projectDir, content.Name, p.logger)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	if forceRestart {
		if err := store.Reset(); err != nil {
			return nil, fmt.Errorf("discard checkpoint: %w", err)
		}
		runLogger.Info("checkpoint discarded, starting fresh")
	}

	snapshot := content.Snapshot()
	configChanged := !store.ValidateConfig(snapshot, p.cfg.CriticalKeys())
	if configChanged {
		runLogger.Warn("critical configuration changed since checkpoint, resuming anyway",
			logging.String(logging.FieldErrorHint, "restart the production to regenerate stale assets"))
	}
	store.SetConfigSnapshot(snapshot)
	if err := store.Save(); err != nil {
		return nil, fmt.Errorf("persist checkpoint: %w", err)
	}

	profile, known := platform.ProfileFor(content.Platform)
	if !known {
		runLogger.Warn("unknown platform, using default",
			logging.String("platform", content.Platform),
			logging.String("default", platform.DefaultName))
		profile = platform.ProfileOrDefault(content.Platform)
	}

	runLogger.Info("production started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("platform", profile.Name),
		logging.String("music", textutil.Ternary(content.AddMusic, "enabled", "disabled")),
		logging.Bool("force_restart", forceRestart),
		logging.String("dir", projectDir))

	steps := make([]StepResult, 0, len(manifest.StepOrder()))

	audioPath, outcome, err := p.executeStep(ctx, store, manifest.StepVoiceover, manifest.AssetAudio,
		func(stepCtx context.Context) (string, error) {
			return p.gens.Voice.Synthesize(stepCtx, content.Script, content.Voice, projectDir)
		})
	if err != nil {
		return nil, err
	}
	steps = append(steps, StepResult{Step: manifest.StepVoiceover, Outcome: outcome, AssetPath: audioPath})

	avatarPath, outcome, err := p.executeStep(ctx, store, manifest.StepAvatar, manifest.AssetAvatarVideo,
		func(stepCtx context.Context) (string, error) {
			return p.gens.Avatar.Render(stepCtx, content.AvatarImage, audioPath, content.AvatarPreset, projectDir)
		})
	if err != nil {
		return nil, err
	}
	steps = append(steps, StepResult{Step: manifest.StepAvatar, Outcome: outcome, AssetPath: avatarPath})

	var musicPath string
	if content.AddMusic {
		musicPath, outcome, err = p.executeStep(ctx, store, manifest.StepMusic, manifest.AssetMusic,
			func(stepCtx context.Context) (string, error) {
				duration := p.musicDuration(stepCtx, audioPath, profile)
				return p.gens.Music.Compose(stepCtx, content.MusicStyle, duration, projectDir)
			})
		if err != nil {
			return nil, err
		}
		steps = append(steps, StepResult{Step: manifest.StepMusic, Outcome: outcome, AssetPath: musicPath})
	} else {
		if err := p.skipMusic(ctx, store); err != nil {
			return nil, err
		}
		steps = append(steps, StepResult{Step: manifest.StepMusic, Outcome: OutcomeSkipped})
	}

	finalPath, outcome, err := p.executeStep(ctx, store, manifest.StepComposition, manifest.AssetFinalVideo,
		func(stepCtx context.Context) (string, error) {
			outputPath := p.finalVideoPath(store, content.Name)
			return p.gens.Compositor.Compose(stepCtx, avatarPath, musicPath, profile, outputPath)
		})
	if err != nil {
		return nil, err
	}
	steps = append(steps, StepResult{Step: manifest.StepComposition, Outcome: outcome, AssetPath: finalPath})

	store.State().ClearCurrentStep()
	if err := store.Save(); err != nil {
		return nil, fmt.Errorf("persist checkpoint: %w", err)
	}

	result := &Result{
		RunID:           runID,
		ProjectName:     content.Name,
		ProjectDir:      projectDir,
		Platform:        profile.Name,
		FinalPath:       finalPath,
		DurationSeconds: p.probeDuration(ctx, finalPath),
		Elapsed:         time.Since(start),
		ConfigChanged:   configChanged,
		Steps:           steps,
	}

	if outcome == OutcomeGenerated {
		p.recordCompletion(ctx, runLogger, result)
	}

	runLogger.Info("production completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("final_path", finalPath),
		logging.Float64("duration_seconds", result.DurationSeconds),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func validateContent(content config.Content) error {
	switch {
	case content.Name == "":
		return services.Wrap(services.ErrValidation, "", "run", "project name is required", nil)
	case content.Script == "":
		return services.Wrap(services.ErrValidation, "", "run", "script text is required", nil)
	case content.AvatarImage == "":
		return services.Wrap(services.ErrValidation, "", "run", "avatar image is required", nil)
	}
	return nil
}

// executeStep runs one pipeline step with checkpointing. A still-valid asset
// from a previous run short-circuits the generator; otherwise the in-flight
// step is persisted before invoking so an interrupted run records where it
// stopped, and the outcome is persisted after.
func (p *Producer) executeStep(ctx context.Context, store *manifest.Store, step manifest.Step, asset string, invoke func(context.Context) (string, error)) (string, StepOutcome, error) {
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("production interrupted: %w", err)
	}

	stepCtx := services.WithStep(ctx, string(step))
	stepLogger := logging.WithContext(stepCtx, p.logger)

	if path, ok := p.reusableAsset(store, step, asset); ok {
		stepLogger.Info("step reused from checkpoint",
			logging.String(logging.FieldEventType, "step_reused"),
			logging.String("path", path))
		return path, OutcomeReused, nil
	}

	store.State().SetCurrentStep(step)
	if err := store.Save(); err != nil {
		return "", "", fmt.Errorf("persist checkpoint: %w", err)
	}

	stepStart := time.Now()
	stepLogger.Info("step started", logging.String(logging.FieldEventType, "step_start"))

	path, err := invoke(stepCtx)
	if err != nil {
		store.MarkAssetFailed(asset, err.Error())
		if saveErr := store.Save(); saveErr != nil {
			stepLogger.Error("could not persist step failure", logging.Error(saveErr))
		}
		stepLogger.Error("step failed",
			logging.String(logging.FieldEventType, "step_failed"),
			logging.Duration("step_duration", time.Since(stepStart)),
			logging.Error(err))
		return "", "", err
	}

	store.RegisterAsset(asset, path, manifest.AssetComplete, true)
	store.State().MarkStepComplete(step)
	if err := store.Save(); err != nil {
		return "", "", fmt.Errorf("persist checkpoint: %w", err)
	}

	stepLogger.Info("step completed",
		logging.String(logging.FieldEventType, "step_complete"),
		logging.String("path", path),
		logging.Duration("step_duration", time.Since(stepStart)))
	return path, OutcomeGenerated, nil
}

// reusableAsset reports whether a checkpointed asset can satisfy the step
// without regenerating. The step must be complete, the record must validate
// against disk per the configured policy, and when checksum verification is
// on the file content must still match the stored fingerprint.
func (p *Producer) reusableAsset(store *manifest.Store, step manifest.Step, asset string) (string, bool) {
	if !store.State().IsStepComplete(step) {
		return "", false
	}
	if !store.HasAsset(asset, p.cfg.Pipeline.ValidateAssets) {
		return "", false
	}
	if p.cfg.Pipeline.VerifyChecksums && store.AssetChanged(asset) {
		return "", false
	}
	rec, _ := store.State().Asset(asset)
	return rec.Path, true
}

// skipMusic records the music step as intentionally skipped so a resume does
// not try to generate it while music stays disabled.
func (p *Producer) skipMusic(ctx context.Context, store *manifest.Store) error {
	store.RegisterAsset(manifest.AssetMusic, "", manifest.AssetSkipped, false)
	store.State().MarkStepComplete(manifest.StepMusic)
	if err := store.Save(); err != nil {
		return fmt.Errorf("persist checkpoint: %w", err)
	}
	logging.WithContext(ctx, p.logger).Info("music disabled, skipping",
		logging.String(logging.FieldStep, string(manifest.StepMusic)),
		logging.String(logging.FieldEventType, "step_skipped"))
	return nil
}

// musicDuration sizes the background track from the narration length plus a
// small tail, bounded by the configured maximum and the platform cap. An
// unreadable narration file falls back to a default length.
func (p *Producer) musicDuration(ctx context.Context, audioPath string, profile platform.Profile) int {
	limit := p.cfg.Music.MaxDurationSeconds
	if profile.MaxDurationSeconds > 0 && profile.MaxDurationSeconds < limit {
		limit = profile.MaxDurationSeconds
	}

	duration := defaultMusicDurationSeconds
	probe, err := ffprobe.Inspect(ctx, p.cfg.Composition.FFprobeBinary, audioPath)
	seconds := probe.DurationSeconds()
	if err != nil || seconds <= 0 {
		logging.WithContext(ctx, p.logger).Warn("could not probe narration duration, using default music length",
			logging.Int("default_seconds", defaultMusicDurationSeconds),
			logging.Error(err))
	} else {
		duration = int(seconds) + musicDurationBufferSeconds
	}

	if duration > limit {
		duration = limit
	}
	if duration < 1 {
		duration = 1
	}
	return duration
}

// finalVideoPath picks a fresh timestamped output name inside the project
// directory. Paths already claimed by a complete record or present on disk
// are never reused, so re-runs cannot clobber an earlier final video.
func (p *Producer) finalVideoPath(store *manifest.Store, projectName string) string {
	stem := textutil.FileStem(projectName)
	ts := time.Now().Unix()
	for {
		path := filepath.Join(store.Dir(), fmt.Sprintf("%s_%d.mp4", stem, ts))
		if rec, ok := store.State().Asset(manifest.AssetFinalVideo); ok && rec.Path == path {
			ts++
			continue
		}
		if _, err := os.Stat(path); err == nil {
			ts++
			continue
		}
		return path
	}
}

// probeDuration best-effort reads the final video duration for reporting.
func (p *Producer) probeDuration(ctx context.Context, path string) float64 {
	probe, err := ffprobe.Inspect(ctx, p.cfg.Composition.FFprobeBinary, path)
	if err != nil {
		logging.WithContext(ctx, p.logger).Debug("could not probe final video duration", logging.Error(err))
		return 0
	}
	return probe.DurationSeconds()
}

// recordCompletion writes the finished production to the catalog. Catalog
// trouble is reported and swallowed; the video already exists on disk.
func (p *Producer) recordCompletion(ctx context.Context, logger *slog.Logger, res *Result) {
	if p.catalog == nil {
		return
	}
	_, err := p.catalog.RecordCompletion(ctx, catalog.Production{
		RunID:           res.RunID,
		ProjectName:     res.ProjectName,
		ProjectDir:      res.ProjectDir,
		Platform:        res.Platform,
		FinalPath:       res.FinalPath,
		DurationSeconds: res.DurationSeconds,
	})
	if err != nil {
		logger.Warn("could not record production in catalog", logging.Error(err))
	}
}
