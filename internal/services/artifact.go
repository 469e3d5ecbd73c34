package services

import (
	"fmt"
	"os"
)

// EnsureArtifact confirms a generator produced a usable file at path: it must
// exist, be a regular file, and be non-empty. Tools that crash mid-write
// commonly leave zero-byte files behind.
func EnsureArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: artifact missing: %w", ErrValidation, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: artifact %s is a directory", ErrValidation, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: artifact %s is empty", ErrValidation, path)
	}
	return nil
}
