package music

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clapper/internal/fileutil"
	"clapper/internal/services"
)

// AudioFileName is the canonical music artifact inside a project directory.
const AudioFileName = "music.wav"

const stepName = "music"

// Client wraps a MusicGen style music generator CLI.
type Client struct {
	binary  string
	timeout time.Duration
}

// New constructs a music generator client.
func New(binary string, timeoutSeconds int) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "generator binary required", nil)
	}
	return &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Compose generates background music in the requested style and returns the
// path of the produced audio file.
func (c *Client) Compose(ctx context.Context, style string, durationSeconds int, outputDir string) (string, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "music style is empty", nil)
	}
	if durationSeconds <= 0 {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "duration must be positive", nil)
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stepName, "compose", "prepare output directory", err)
	}
	outputPath := filepath.Join(outputDir, AudioFileName)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := style + " background music"
	args := []string{
		"--prompt", prompt,
		"--duration", strconv.Itoa(durationSeconds),
		"--output", outputPath,
	}

	if err := services.RunCommand(runCtx, c.binary, args...); err != nil {
		return "", services.Wrap(services.ErrGeneration, stepName, "compose", "music generation failed", err)
	}
	if err := services.EnsureArtifact(outputPath); err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "tool reported success without usable audio", err)
	}
	return outputPath, nil
}

// HealthCheck reports whether the generator binary is resolvable.
func (c *Client) HealthCheck(ctx context.Context) services.Health {
	if _, err := exec.LookPath(c.binary); err != nil {
		return services.Unhealthy("music", err.Error())
	}
	return services.Healthy("music")
}
