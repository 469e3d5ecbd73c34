package compositor

import (
	"strings"
	"testing"

	"clapper/internal/platform"
)

func TestBuildArgsVerticalWithMusic(t *testing.T) {
	profile := platform.ProfileOrDefault("tiktok")
	args := buildArgs("/p/avatar.mp4", "/p/music.wav", profile, 0.15, "/p/out.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "scale=1080:1920:force_original_aspect_ratio=decrease") {
		t.Errorf("expected vertical scale filter, got %q", joined)
	}
	if !strings.Contains(joined, "pad=1080:1920:(ow-iw)/2:(oh-ih)/2") {
		t.Errorf("expected centered padding, got %q", joined)
	}
	if !strings.Contains(joined, "volume=0.15") {
		t.Errorf("expected music volume filter, got %q", joined)
	}
	if !strings.Contains(joined, "amix=inputs=2:duration=first") {
		t.Errorf("expected speech-first mix, got %q", joined)
	}
	if !strings.Contains(joined, "-stream_loop -1 -i /p/music.wav") {
		t.Errorf("expected looped music input, got %q", joined)
	}
	if !strings.Contains(joined, "-movflags +faststart") {
		t.Errorf("expected faststart flag, got %q", joined)
	}
	if args[len(args)-1] != "/p/out.mp4" {
		t.Errorf("expected output path last, got %q", args[len(args)-1])
	}
}

func TestBuildArgsWithoutMusic(t *testing.T) {
	profile := platform.ProfileOrDefault("youtube")
	args := buildArgs("/p/avatar.mp4", "", profile, 0.15, "/p/out.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "scale=1920:1080") {
		t.Errorf("expected landscape scale, got %q", joined)
	}
	if strings.Contains(joined, "amix") || strings.Contains(joined, "volume=") {
		t.Errorf("music filters must be absent, got %q", joined)
	}
	if !strings.Contains(joined, "-map 0:a") {
		t.Errorf("expected direct speech mapping, got %q", joined)
	}
	if strings.Contains(joined, "-shortest") {
		t.Errorf("-shortest only applies to looped music, got %q", joined)
	}
}
