package avatar_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clapper/internal/services"
	"clapper/internal/services/avatar"
)

const renderingStub = `#!/bin/sh
dir=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--result_dir" ]; then dir="$arg"; fi
  prev="$arg"
done
[ -n "$dir" ] || exit 1
mkdir -p "$dir/2026_01_01_000000"
printf 'mp4data' > "$dir/2026_01_01_000000/render.mp4"
`

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sadtalker")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func writeInputs(t *testing.T) (image, audio string) {
	t.Helper()
	dir := t.TempDir()
	image = filepath.Join(dir, "face.png")
	audio = filepath.Join(dir, "voiceover.mp3")
	for _, path := range []string{image, audio} {
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatalf("write input %s: %v", path, err)
		}
	}
	return image, audio
}

func TestRenderClaimsNewestResult(t *testing.T) {
	stub := writeStub(t, renderingStub)
	resultsDir := t.TempDir()

	// A leftover from an earlier run must not be claimed.
	stale := filepath.Join(resultsDir, "old.mp4")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatal(err)
	}

	client, err := avatar.New(stub, resultsDir, 60)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	image, audio := writeInputs(t)
	outputDir := t.TempDir()

	path, err := client.Render(context.Background(), image, audio, "news_anchor", outputDir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if path != filepath.Join(outputDir, avatar.VideoFileName) {
		t.Fatalf("unexpected output path: %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read claimed video: %v", err)
	}
	if string(data) != "mp4data" {
		t.Fatalf("claimed the wrong file: %q", data)
	}
	leftovers, err := filepath.Glob(filepath.Join(resultsDir, "*", "*", "*.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("claimed video should be moved out of the results directory, found %v", leftovers)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatal("stale result must be left alone")
	}
}

func TestRenderFailsWhenNothingProduced(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\nexit 0\n")
	client, err := avatar.New(stub, t.TempDir(), 60)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	image, audio := writeInputs(t)
	_, err = client.Render(context.Background(), image, audio, "", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRenderToolFailure(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\necho CUDA out of memory >&2\nexit 1\n")
	client, err := avatar.New(stub, t.TempDir(), 60)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	image, audio := writeInputs(t)
	_, err = client.Render(context.Background(), image, audio, "", t.TempDir())
	if !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestRenderRequiresInputs(t *testing.T) {
	client, err := avatar.New("sadtalker", t.TempDir(), 60)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, audio := writeInputs(t)

	_, err = client.Render(context.Background(), "", audio, "", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty image: expected ErrValidation, got %v", err)
	}

	_, err = client.Render(context.Background(), filepath.Join(t.TempDir(), "missing.png"), audio, "", t.TempDir())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing image: expected ErrNotFound, got %v", err)
	}
	if services.Retryable(err) {
		t.Fatal("missing inputs should not be retryable")
	}
}
