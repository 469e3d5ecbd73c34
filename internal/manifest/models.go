package manifest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Step identifies one stage of the production pipeline.
type Step string

const (
	StepVoiceover   Step = "voiceover"
	StepAvatar      Step = "avatar"
	StepMusic       Step = "music"
	StepComposition Step = "composition"
	StepThumbnail   Step = "thumbnail"
	StepUpload      Step = "upload"
)

var allSteps = []Step{
	StepVoiceover,
	StepAvatar,
	StepMusic,
	StepComposition,
	StepThumbnail,
	StepUpload,
}

var stepSet = func() map[Step]struct{} {
	set := make(map[Step]struct{}, len(allSteps))
	for _, step := range allSteps {
		set[step] = struct{}{}
	}
	return set
}()

// stepOrder is the fixed production order. Thumbnail and upload are valid
// manifest values but are produced outside this pipeline, so they do not
// participate in resume-point calculation.
var stepOrder = []Step{
	StepVoiceover,
	StepAvatar,
	StepMusic,
	StepComposition,
}

// AllSteps returns every known step, including ones outside the resume order.
func AllSteps() []Step {
	cp := make([]Step, len(allSteps))
	copy(cp, allSteps)
	return cp
}

// StepOrder returns the fixed sequence the pipeline executes and resumes by.
func StepOrder() []Step {
	cp := make([]Step, len(stepOrder))
	copy(cp, stepOrder)
	return cp
}

// ParseStep converts a string into a known Step.
func ParseStep(value string) (Step, bool) {
	normalized := Step(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stepSet[normalized]
	return normalized, ok
}

// AssetStatus represents the lifecycle of one produced asset.
type AssetStatus string

const (
	AssetPending    AssetStatus = "pending"
	AssetInProgress AssetStatus = "in_progress"
	AssetComplete   AssetStatus = "complete"
	AssetFailed     AssetStatus = "failed"
	AssetSkipped    AssetStatus = "skipped"
)

var allAssetStatuses = []AssetStatus{
	AssetPending,
	AssetInProgress,
	AssetComplete,
	AssetFailed,
	AssetSkipped,
}

var assetStatusSet = func() map[AssetStatus]struct{} {
	set := make(map[AssetStatus]struct{}, len(allAssetStatuses))
	for _, status := range allAssetStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllAssetStatuses returns the ordered list of known asset statuses.
func AllAssetStatuses() []AssetStatus {
	cp := make([]AssetStatus, len(allAssetStatuses))
	copy(cp, allAssetStatuses)
	return cp
}

// ParseAssetStatus converts a string into a known AssetStatus.
func ParseAssetStatus(value string) (AssetStatus, bool) {
	normalized := AssetStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := assetStatusSet[normalized]
	return normalized, ok
}

// Logical asset names used by the production pipeline.
const (
	AssetAudio       = "audio"
	AssetAvatarVideo = "avatar_video"
	AssetMusic       = "music"
	AssetFinalVideo  = "final_video"
)

// StepAsset maps a step to the logical asset it produces. Steps outside the
// production order track no asset.
func StepAsset(step Step) (string, bool) {
	switch step {
	case StepVoiceover:
		return AssetAudio, true
	case StepAvatar:
		return AssetAvatarVideo, true
	case StepMusic:
		return AssetMusic, true
	case StepComposition:
		return AssetFinalVideo, true
	default:
		return "", false
	}
}

// AssetRecord describes one pipeline output.
type AssetRecord struct {
	Kind      string      `json:"asset_type"`
	Path      string      `json:"path"`
	Status    AssetStatus `json:"status"`
	Checksum  string      `json:"checksum"`
	CreatedAt *time.Time  `json:"created_at"`
	Error     string      `json:"error"`
}

// IsComplete reports whether the record claims a finished asset. Disk
// validation is the Store's job; this only inspects the record itself.
func (a *AssetRecord) IsComplete() bool {
	return a != nil && a.Status == AssetComplete && a.Path != ""
}

// ProductionState aggregates everything the pipeline knows about one project.
type ProductionState struct {
	ProjectName    string                  `json:"project_name"`
	ProjectDir     string                  `json:"project_dir"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Assets         map[string]*AssetRecord `json:"assets"`
	ConfigSnapshot map[string]string       `json:"config_snapshot"`
	CurrentStep    *Step                   `json:"current_step"`
	CompletedSteps []Step                  `json:"completed_steps"`
}

// NewState constructs a fresh ProductionState for the given project.
func NewState(projectName, projectDir string) *ProductionState {
	now := time.Now().UTC()
	return &ProductionState{
		ProjectName:    projectName,
		ProjectDir:     projectDir,
		CreatedAt:      now,
		UpdatedAt:      now,
		Assets:         make(map[string]*AssetRecord),
		ConfigSnapshot: make(map[string]string),
	}
}

// Asset returns the record for a logical asset name.
func (s *ProductionState) Asset(name string) (*AssetRecord, bool) {
	rec, ok := s.Assets[name]
	return rec, ok
}

// IsStepComplete reports whether a step has been marked complete.
func (s *ProductionState) IsStepComplete(step Step) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// MarkStepComplete records a completed step. Completed steps are monotonic:
// marking twice is a no-op, and only Reset removes entries.
func (s *ProductionState) MarkStepComplete(step Step) {
	if s.IsStepComplete(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
	s.touch()
}

// SetCurrentStep records the step the pipeline is about to run.
func (s *ProductionState) SetCurrentStep(step Step) {
	current := step
	s.CurrentStep = &current
	s.touch()
}

// ClearCurrentStep resets the in-flight step marker.
func (s *ProductionState) ClearCurrentStep() {
	s.CurrentStep = nil
	s.touch()
}

// ResumePoint returns the first step in the fixed order not yet complete, or
// nil when every step in the order is complete.
func (s *ProductionState) ResumePoint() *Step {
	for _, step := range stepOrder {
		if !s.IsStepComplete(step) {
			resume := step
			return &resume
		}
	}
	return nil
}

func (s *ProductionState) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// validate checks that a deserialized state is structurally sound. Any
// violation is treated as manifest corruption by the Store.
func (s *ProductionState) validate() error {
	if strings.TrimSpace(s.ProjectName) == "" {
		return errors.New("project_name is required")
	}
	if strings.TrimSpace(s.ProjectDir) == "" {
		return errors.New("project_dir is required")
	}
	for name, rec := range s.Assets {
		if rec == nil {
			return fmt.Errorf("asset %q: record is null", name)
		}
		if _, ok := ParseAssetStatus(string(rec.Status)); !ok {
			return fmt.Errorf("asset %q: unknown status %q", name, rec.Status)
		}
	}
	for _, step := range s.CompletedSteps {
		if _, ok := ParseStep(string(step)); !ok {
			return fmt.Errorf("completed_steps: unknown step %q", step)
		}
	}
	if s.CurrentStep != nil {
		if _, ok := ParseStep(string(*s.CurrentStep)); !ok {
			return fmt.Errorf("current_step: unknown step %q", *s.CurrentStep)
		}
	}
	return nil
}
