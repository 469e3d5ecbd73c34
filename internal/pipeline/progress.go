package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clapper/internal/manifest"
	"clapper/internal/projectlock"
	"clapper/internal/services"
)

// ProgressReport is a read-only view of a project's checkpoint state.
type ProgressReport struct {
	ProjectName    string
	ProjectDir     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CurrentStep    *manifest.Step
	ResumePoint    *manifest.Step
	CompletedSteps []manifest.Step
	Assets         map[string]manifest.AssetRecord
}

// Step display states reported by StepStatus.
const (
	StepStateComplete = "complete"
	StepStateRunning  = "running"
	StepStateNext     = "next"
	StepStatePending  = "pending"
)

// StepStatus classifies one step for display.
func (r *ProgressReport) StepStatus(step manifest.Step) string {
	for _, done := range r.CompletedSteps {
		if done == step {
			return StepStateComplete
		}
	}
	if r.CurrentStep != nil && *r.CurrentStep == step {
		return StepStateRunning
	}
	if r.ResumePoint != nil && *r.ResumePoint == step {
		return StepStateNext
	}
	return StepStatePending
}

// Finished reports whether every step in the production order is complete.
func (r *ProgressReport) Finished() bool {
	return r.ResumePoint == nil
}

// Progress loads the checkpoint for projectDir without mutating it. Missing
// manifests surface os.ErrNotExist; unreadable ones surface
// manifest.ErrCorrupt. Reading is safe while a production runs, though the
// snapshot may be mid-step.
func Progress(projectDir string, logger *slog.Logger) (*ProgressReport, error) {
	store, err := manifest.Load(projectDir, logger)
	if err != nil {
		return nil, err
	}
	state := store.State()

	report := &ProgressReport{
		ProjectName:    state.ProjectName,
		ProjectDir:     state.ProjectDir,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
		ResumePoint:    state.ResumePoint(),
		CompletedSteps: append([]manifest.Step(nil), state.CompletedSteps...),
		Assets:         make(map[string]manifest.AssetRecord, len(state.Assets)),
	}
	if state.CurrentStep != nil {
		current := *state.CurrentStep
		report.CurrentStep = &current
	}
	for name, rec := range state.Assets {
		report.Assets[name] = *rec
	}
	return report, nil
}

// Reset discards the checkpoint for projectDir while leaving every produced
// asset file in place. A corrupt manifest is replaced the same way a run
// would replace it. The project lock is taken so an in-flight production
// cannot be reset out from under itself.
func Reset(projectDir string, logger *slog.Logger) error {
	lock, err := projectlock.Acquire(projectDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "lock", "another process owns this project", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	store, err := manifest.Load(projectDir, logger)
	if err != nil {
		if errors.Is(err, manifest.ErrCorrupt) {
			recovered, loadErr := manifest.LoadOrCreate(projectDir, manifest.RecoveredProjectName, logger)
			if loadErr != nil {
				return fmt.Errorf("replace corrupt checkpoint: %w", loadErr)
			}
			return recovered.Save()
		}
		return err
	}
	return store.Reset()
}
