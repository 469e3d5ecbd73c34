package voice_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clapper/internal/services"
	"clapper/internal/services/voice"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edge-tts")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

const producingStub = `#!/bin/sh
echo "$@" > "$(dirname "$0")/args.txt"
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--write-media" ]; then out="$arg"; fi
  prev="$arg"
done
[ -n "$out" ] || exit 1
printf 'RIFFaudio' > "$out"
`

func TestSynthesizeProducesAudio(t *testing.T) {
	stub := writeStub(t, producingStub)
	client, err := voice.New(stub, "+10%", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	outputDir := t.TempDir()
	path, err := client.Synthesize(context.Background(), "Hello out there.", "en-US-AriaNeural", outputDir)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if path != filepath.Join(outputDir, voice.AudioFileName) {
		t.Fatalf("unexpected output path: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected audio file: %v", err)
	}

	args, err := os.ReadFile(filepath.Join(filepath.Dir(stub), "args.txt"))
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	recorded := string(args)
	for _, want := range []string{"--voice en-US-AriaNeural", "--rate=+10%", "Hello out there."} {
		if !strings.Contains(recorded, want) {
			t.Errorf("expected args to contain %q, got %q", want, recorded)
		}
	}
}

func TestSynthesizeRejectsEmptyScript(t *testing.T) {
	client, err := voice.New("edge-tts", "", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Synthesize(context.Background(), "   ", "en-US-AriaNeural", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSynthesizeToolFailure(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\necho voice model unavailable >&2\nexit 7\n")
	client, err := voice.New(stub, "", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Synthesize(context.Background(), "Hi", "en-US-AriaNeural", t.TempDir())
	if !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !strings.Contains(err.Error(), "voice model unavailable") {
		t.Fatalf("expected tool stderr in error, got %q", err.Error())
	}
	if !services.Retryable(err) {
		t.Fatal("tool failures should be retryable")
	}
}

func TestSynthesizeEmptyOutputFails(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\nexit 0\n")
	client, err := voice.New(stub, "", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Synthesize(context.Background(), "Hi", "en-US-AriaNeural", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing output, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := voice.New("  ", "", 30); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	stub := writeStub(t, producingStub)
	client, err := voice.New(stub, "", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if health := client.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy, got %+v", health)
	}

	missing, err := voice.New(filepath.Join(t.TempDir(), "nope"), "", 30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if health := missing.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy for missing binary")
	}
}
