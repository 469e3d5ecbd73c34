package voice

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"clapper/internal/fileutil"
	"clapper/internal/services"
)

// AudioFileName is the canonical voiceover artifact inside a project
// directory. The stable name lets checkpoints reuse the file across runs.
const AudioFileName = "voiceover.mp3"

const stepName = "voiceover"

// Client wraps an edge-tts style text-to-speech CLI.
type Client struct {
	binary  string
	rate    string
	timeout time.Duration
}

// New constructs a TTS client.
func New(binary, rate string, timeoutSeconds int) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "tts binary required", nil)
	}
	return &Client{
		binary:  binary,
		rate:    strings.TrimSpace(rate),
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Synthesize renders script as speech with the given voice and returns the
// path of the produced audio file.
func (c *Client) Synthesize(ctx context.Context, script, voiceID, outputDir string) (string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "synthesize", "script is empty", nil)
	}
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return "", services.Wrap(services.ErrConfiguration, stepName, "synthesize", "voice id required", nil)
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stepName, "synthesize", "prepare output directory", err)
	}
	outputPath := filepath.Join(outputDir, AudioFileName)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--voice", voiceID}
	if c.rate != "" {
		args = append(args, "--rate="+c.rate)
	}
	args = append(args, "--text", script, "--write-media", outputPath)

	if err := services.RunCommand(runCtx, c.binary, args...); err != nil {
		return "", services.Wrap(services.ErrGeneration, stepName, "synthesize", "text to speech failed", err)
	}
	if err := services.EnsureArtifact(outputPath); err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "synthesize", "tool reported success without usable audio", err)
	}
	return outputPath, nil
}

// HealthCheck reports whether the TTS binary is resolvable.
func (c *Client) HealthCheck(ctx context.Context) services.Health {
	if _, err := exec.LookPath(c.binary); err != nil {
		return services.Unhealthy("voice", err.Error())
	}
	return services.Healthy("voice")
}
