// Package projectlock enforces single-writer access to a project directory.
//
// Two pipeline runs sharing a checkpoint file would silently clobber each
// other's progress, so a run takes an advisory lock inside the project
// directory before touching any state and holds it until it finishes.
package projectlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file kept in each project directory.
const FileName = ".clapper.lock"

// ErrHeld reports that another process is already producing this project.
var ErrHeld = errors.New("project is locked by another clapper process")

// Lock guards one project directory against concurrent pipeline runs.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the project lock without blocking. Contention returns
// ErrHeld so callers fail fast instead of queueing behind a running
// production.
func Acquire(projectDir string) (*Lock, error) {
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare project directory: %w", err)
	}
	path := filepath.Join(projectDir, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire project lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHeld, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Release drops the lock. Safe to call once after a successful Acquire.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}

// Path returns the lock file location, for logging.
func (l *Lock) Path() string {
	return l.path
}
