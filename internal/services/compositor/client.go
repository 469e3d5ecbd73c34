package compositor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clapper/internal/fileutil"
	"clapper/internal/media/ffprobe"
	"clapper/internal/platform"
	"clapper/internal/services"
)

const stepName = "composition"

// Client wraps ffmpeg for final video assembly.
type Client struct {
	ffmpegBinary  string
	ffprobeBinary string
	musicVolume   float64
	timeout       time.Duration
}

// New constructs a compositor client. musicVolume is the background music
// level relative to the speech track, between 0 and 1.
func New(ffmpegBinary, ffprobeBinary string, musicVolume float64, timeoutSeconds int) (*Client, error) {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "ffmpeg binary required", nil)
	}
	ffprobeBinary = strings.TrimSpace(ffprobeBinary)
	if ffprobeBinary == "" {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new", "ffprobe binary required", nil)
	}
	if musicVolume <= 0 || musicVolume > 1 {
		return nil, services.Wrap(services.ErrConfiguration, stepName, "new",
			fmt.Sprintf("music volume %v out of range", musicVolume), nil)
	}
	return &Client{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
		musicVolume:   musicVolume,
		timeout:       time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Compose builds the final video at outputPath from the avatar video and an
// optional music track, formatted for the platform profile. An empty
// musicPath produces a speech-only mix.
func (c *Client) Compose(ctx context.Context, avatarVideo, musicPath string, profile platform.Profile, outputPath string) (string, error) {
	avatarVideo = strings.TrimSpace(avatarVideo)
	if avatarVideo == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "no avatar video provided", nil)
	}
	if _, err := os.Stat(avatarVideo); err != nil {
		return "", services.Wrap(services.ErrNotFound, stepName, "compose", "avatar video unavailable", err)
	}
	musicPath = strings.TrimSpace(musicPath)
	if musicPath != "" {
		if _, err := os.Stat(musicPath); err != nil {
			return "", services.Wrap(services.ErrNotFound, stepName, "compose", "music track unavailable", err)
		}
	}
	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "no output path provided", nil)
	}
	if err := fileutil.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stepName, "compose", "prepare output directory", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := buildArgs(avatarVideo, musicPath, profile, c.musicVolume, outputPath)
	if err := services.RunCommand(runCtx, c.ffmpegBinary, args...); err != nil {
		return "", services.Wrap(services.ErrGeneration, stepName, "compose", "ffmpeg failed", err)
	}
	if err := services.EnsureArtifact(outputPath); err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "ffmpeg reported success without usable output", err)
	}

	result, err := ffprobe.Inspect(runCtx, c.ffprobeBinary, outputPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "probe composed video", err)
	}
	if result.VideoStreamCount() == 0 {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "composed file has no video stream", nil)
	}
	if result.AudioStreamCount() == 0 {
		return "", services.Wrap(services.ErrValidation, stepName, "compose", "composed file has no audio stream", nil)
	}
	return outputPath, nil
}

// buildArgs assembles the ffmpeg invocation. The video is scaled to fit the
// profile and centered on black padding, which turns landscape renders into
// proper vertical videos for 9:16 platforms. Music, when present, loops to
// cover the speech and is mixed underneath it.
func buildArgs(avatarVideo, musicPath string, profile platform.Profile, musicVolume float64, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", avatarVideo}

	fit := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		profile.Width, profile.Height, profile.Width, profile.Height)

	if musicPath == "" {
		args = append(args,
			"-filter_complex", "[0:v]"+fit+"[v]",
			"-map", "[v]", "-map", "0:a",
		)
	} else {
		volume := strconv.FormatFloat(musicVolume, 'f', -1, 64)
		filter := "[0:v]" + fit + "[v];" +
			"[1:a]volume=" + volume + "[m];" +
			"[0:a][m]amix=inputs=2:duration=first:dropout_transition=0[a]"
		args = append(args,
			"-stream_loop", "-1", "-i", musicPath,
			"-filter_complex", filter,
			"-map", "[v]", "-map", "[a]",
			"-shortest",
		)
	}

	args = append(args,
		"-r", "24",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-movflags", "+faststart",
		outputPath,
	)
	return args
}

// HealthCheck reports whether both ffmpeg and ffprobe are resolvable.
func (c *Client) HealthCheck(ctx context.Context) services.Health {
	for _, binary := range []string{c.ffmpegBinary, c.ffprobeBinary} {
		if _, err := exec.LookPath(binary); err != nil {
			return services.Unhealthy("composition", err.Error())
		}
	}
	return services.Healthy("composition")
}
