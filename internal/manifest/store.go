package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"clapper/internal/fileutil"
	"clapper/internal/logging"
)

// Filename is the manifest's fixed name inside a project directory.
const Filename = "manifest.json"

// RecoveredProjectName names the fresh state adopted when an existing manifest
// cannot be parsed.
const RecoveredProjectName = "Recovered"

// ErrCorrupt marks a manifest file that exists but cannot be parsed or fails
// structural validation. LoadOrCreate absorbs it; Load surfaces it so the
// recovery branch stays testable.
var ErrCorrupt = errors.New("corrupt manifest")

// Store persists exactly one ProductionState per project directory.
//
// A Store is an independently owned value: construct one per project and pass
// it down. It is not safe for concurrent use; callers serialize access per
// project directory (the pipeline holds a file lock for the same reason).
type Store struct {
	dir    string
	path   string
	logger *slog.Logger
	state  *ProductionState
}

// LoadOrCreate opens the manifest for projectDir, creating a fresh state when
// no manifest exists. A corrupt manifest never fails the call: the broken file
// is set aside as manifest.json.corrupt and a fresh state named "Recovered"
// takes its place, preserving the project directory.
func LoadOrCreate(projectDir, projectName string, logger *slog.Logger) (*Store, error) {
	store, err := newStore(projectDir, logger)
	if err != nil {
		return nil, err
	}

	state, err := readState(store.path)
	switch {
	case err == nil:
		store.state = state
	case errors.Is(err, os.ErrNotExist):
		store.state = NewState(projectName, projectDir)
		store.logger.Debug("no manifest found, starting fresh",
			logging.String("project", projectName))
	case errors.Is(err, ErrCorrupt):
		store.logger.Warn("manifest is corrupt, falling back to fresh state",
			logging.String("path", store.path),
			logging.Error(err))
		store.preserveCorrupt()
		store.state = NewState(RecoveredProjectName, projectDir)
	default:
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return store, nil
}

// Load opens an existing manifest without creating one. Missing files surface
// os.ErrNotExist; unparseable files surface ErrCorrupt.
func Load(projectDir string, logger *slog.Logger) (*Store, error) {
	store, err := newStore(projectDir, logger)
	if err != nil {
		return nil, err
	}
	state, err := readState(store.path)
	if err != nil {
		return nil, err
	}
	store.state = state
	return store, nil
}

func newStore(projectDir string, logger *slog.Logger) (*Store, error) {
	if projectDir == "" {
		return nil, errors.New("project directory is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		dir:    projectDir,
		path:   filepath.Join(projectDir, Filename),
		logger: logging.NewComponentLogger(logger, "manifest-store"),
	}, nil
}

func readState(path string) (*ProductionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state ProductionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrCorrupt, err)
	}
	if err := state.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if state.Assets == nil {
		state.Assets = make(map[string]*AssetRecord)
	}
	if state.ConfigSnapshot == nil {
		state.ConfigSnapshot = make(map[string]string)
	}
	return &state, nil
}

// preserveCorrupt keeps the unreadable manifest next to the fresh one so the
// evidence survives for debugging. Best effort only.
func (s *Store) preserveCorrupt() {
	corruptPath := s.path + ".corrupt"
	if err := os.Rename(s.path, corruptPath); err != nil {
		s.logger.Warn("could not preserve corrupt manifest",
			logging.String("path", s.path),
			logging.Error(err))
		return
	}
	s.logger.Info("preserved corrupt manifest", logging.String("path", corruptPath))
}

// Dir returns the project directory this store owns.
func (s *Store) Dir() string { return s.dir }

// Path returns the manifest file path.
func (s *Store) Path() string { return s.path }

// State exposes the in-memory production state. Mutations are persisted only
// by an explicit Save.
func (s *Store) State() *ProductionState { return s.state }

// Save serializes the current state to disk, overwriting the previous
// manifest. The write is whole-file atomic (temp file plus rename) so a crash
// mid-save leaves the previous manifest intact.
func (s *Store) Save() error {
	s.state.touch()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := fileutil.WriteAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	s.logger.Debug("manifest saved",
		logging.String("path", s.path),
		logging.Int("assets", len(s.state.Assets)),
		logging.Int("completed_steps", len(s.state.CompletedSteps)))
	return nil
}

// RegisterAsset records a produced asset. When computeChecksum is set and the
// file exists, a content fingerprint is stored for later change detection; a
// fingerprint failure degrades to a warning rather than failing registration.
func (s *Store) RegisterAsset(name, path string, status AssetStatus, computeChecksum bool) {
	now := time.Now().UTC()
	rec := &AssetRecord{
		Kind:      name,
		Path:      path,
		Status:    status,
		CreatedAt: &now,
	}
	if computeChecksum && path != "" {
		if info, err := os.Stat(path); err == nil {
			sum, err := Fingerprint(path)
			if err != nil {
				s.logger.Warn("fingerprint failed, storing asset without checksum",
					logging.String("asset", name),
					logging.String("path", path),
					logging.Error(err))
			} else {
				rec.Checksum = sum
				s.logger.Debug("asset fingerprinted",
					logging.String("asset", name),
					logging.Int64("bytes", info.Size()))
			}
		}
	}
	s.state.Assets[name] = rec
	s.state.touch()
}

// MarkAssetFailed transitions (or creates) the named record to failed with the
// given reason. Completed steps are never removed by a failure.
func (s *Store) MarkAssetFailed(name, reason string) {
	rec, ok := s.state.Assets[name]
	if !ok {
		rec = &AssetRecord{Kind: name}
		s.state.Assets[name] = rec
	}
	rec.Status = AssetFailed
	rec.Error = reason
	s.state.touch()
}

// HasAsset reports whether the named asset is usable: its record claims
// completion and, when validate is set, the file still exists on disk. A
// missing file on a nominally complete record logs a warning and invalidates
// the asset instead of erroring.
func (s *Store) HasAsset(name string, validate bool) bool {
	rec, ok := s.state.Assets[name]
	if !ok || !rec.IsComplete() {
		return false
	}
	if !validate {
		return true
	}
	if _, err := os.Stat(rec.Path); err != nil {
		s.logger.Warn("asset file missing, invalidating",
			logging.String("asset", name),
			logging.String("path", rec.Path))
		return false
	}
	return true
}

// AssetChanged reports whether the named asset's on-disk content no longer
// matches its stored fingerprint. Records without a fingerprint cannot be
// compared and report false; unreadable files report true so the step reruns.
func (s *Store) AssetChanged(name string) bool {
	rec, ok := s.state.Assets[name]
	if !ok || !rec.IsComplete() || rec.Checksum == "" {
		return false
	}
	sum, err := Fingerprint(rec.Path)
	if err != nil {
		s.logger.Warn("could not refingerprint asset, treating as changed",
			logging.String("asset", name),
			logging.Error(err))
		return true
	}
	if sum != rec.Checksum {
		s.logger.Warn("asset content changed since registration",
			logging.String("asset", name),
			logging.String("expected", rec.Checksum),
			logging.String("actual", sum))
		return true
	}
	return false
}

// SetConfigSnapshot replaces the stored configuration snapshot.
func (s *Store) SetConfigSnapshot(snapshot map[string]string) {
	cp := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		cp[k] = v
	}
	s.state.ConfigSnapshot = cp
	s.state.touch()
}

// ValidateConfig compares the allow-listed critical keys between the stored
// snapshot and a proposed run. Any difference logs the offending keys and
// returns false; the caller decides whether to resume anyway or restart.
func (s *Store) ValidateConfig(proposed map[string]string, criticalKeys []string) bool {
	if len(s.state.ConfigSnapshot) == 0 {
		return true
	}
	var changed []string
	for _, key := range criticalKeys {
		if s.state.ConfigSnapshot[key] != proposed[key] {
			changed = append(changed, key)
		}
	}
	if len(changed) == 0 {
		return true
	}
	s.logger.Warn("critical configuration changed since checkpoint",
		logging.Any("keys", changed))
	return false
}

// Reset discards all checkpoint state for a fresh run, preserving the project
// name and directory, and persists immediately.
func (s *Store) Reset() error {
	s.state = NewState(s.state.ProjectName, s.state.ProjectDir)
	return s.Save()
}
