package avatar

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"clapper/internal/fileutil"
	"clapper/internal/services"
	"clapper/internal/textutil"
)

// VideoFileName is the canonical avatar artifact inside a project directory.
const VideoFileName = "avatar.mp4"

const stepName = "avatar"

// Client wraps a SadTalker style talking-head renderer CLI.
type Client struct {
	binary     string
	resultsDir string
	timeout    time.Duration
}

// New constructs an avatar renderer client. resultsDir is the directory the
// tool writes finished renders into.
func New(binary, resultsDir string, timeoutSeconds int) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "renderer binary required", nil)
	}
	resultsDir = strings.TrimSpace(resultsDir)
	if resultsDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "results directory required", nil)
	}
	return &Client{
		binary:     binary,
		resultsDir: resultsDir,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Render produces a talking-head video for the image speaking the audio and
// returns the path of the claimed video file. Renders are staged in a
// per-production subdirectory of the results dir so simultaneous productions
// cannot claim each other's output.
func (c *Client) Render(ctx context.Context, imagePath, audioPath, preset, outputDir string) (string, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "render", "no avatar image provided", nil)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", services.Wrap(services.ErrNotFound, stepName, "render", "avatar image unavailable", err)
	}
	audioPath = strings.TrimSpace(audioPath)
	if audioPath == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "render", "no driving audio provided", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", services.Wrap(services.ErrNotFound, stepName, "render", "driving audio unavailable", err)
	}
	scratchDir := filepath.Join(c.resultsDir, textutil.SanitizeToken(filepath.Base(outputDir)))
	if err := fileutil.EnsureDir(scratchDir); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stepName, "render", "prepare results directory", err)
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stepName, "render", "prepare output directory", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now().Add(-time.Second)

	args := []string{
		"--source_image", imagePath,
		"--driven_audio", audioPath,
		"--result_dir", scratchDir,
	}
	if preset = strings.TrimSpace(preset); preset != "" {
		args = append(args, "--preset", preset)
	}

	if err := services.RunCommand(runCtx, c.binary, args...); err != nil {
		return "", services.Wrap(services.ErrGeneration, stepName, "render", "avatar rendering failed", err)
	}

	produced, err := newestVideo(scratchDir, started)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "render", "inspect renderer results", err)
	}
	if produced == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "render", "renderer finished without producing a video", nil)
	}

	outputPath := filepath.Join(outputDir, VideoFileName)
	if err := fileutil.MoveFile(produced, outputPath); err != nil {
		return "", services.Wrap(services.ErrGeneration, stepName, "render", "claim rendered video", err)
	}
	if err := services.EnsureArtifact(outputPath); err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "render", "claimed video unusable", err)
	}
	return outputPath, nil
}

// newestVideo walks the results tree and returns the most recently modified
// video file created after the cutoff. Renderers nest results in timestamped
// subdirectories, so the walk is recursive.
func newestVideo(dir string, cutoff time.Time) (string, error) {
	var (
		newestPath string
		newestTime time.Time
	)
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".mp4") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			return nil
		}
		if newestPath == "" || info.ModTime().After(newestTime) {
			newestPath = path
			newestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newestPath, nil
}

// HealthCheck reports whether the renderer binary is resolvable.
func (c *Client) HealthCheck(ctx context.Context) services.Health {
	if _, err := exec.LookPath(c.binary); err != nil {
		return services.Unhealthy("avatar", err.Error())
	}
	return services.Healthy("avatar")
}
