package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"clapper/internal/config"
)

const bytesPerGiB = 1 << 30

// statfs reports the bytes available to unprivileged writers on the
// filesystem containing path. Variable so tests can fake full disks.
var statfs = func(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minFreeGB gibibytes available. A non-positive minimum disables the check.
func CheckFreeSpace(name, path string, minFreeGB int) Result {
	if minFreeGB <= 0 {
		return Result{Name: name, Passed: true, Detail: "minimum free space not configured"}
	}
	free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	needed := uint64(minFreeGB) * bytesPerGiB
	if free < needed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, %d GiB required)", path, float64(free)/bytesPerGiB, minFreeGB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/bytesPerGiB)}
}

// CheckSystemDeps evaluates the external binaries the configured pipeline
// invokes. Both the doctor command and tests use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []BinaryStatus {
	requirements := []BinaryRequirement{
		{
			Name:        "Voice synthesizer",
			Command:     cfg.Voice.Binary,
			Description: "Required for narration synthesis",
		},
		{
			Name:        "Avatar renderer",
			Command:     cfg.Avatar.Binary,
			Description: "Required for talking-head rendering",
		},
		{
			Name:        "Music generator",
			Command:     cfg.Music.Binary,
			Description: "Required for background music",
			Optional:    !cfg.Music.Enabled,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Composition.FFmpegBinary,
			Description: "Required for final composition",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Composition.FFprobeBinary,
			Description: "Required for media inspection",
		},
	}
	return CheckBinaries(requirements)
}
