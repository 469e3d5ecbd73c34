package testsupport

import (
	"path/filepath"
	"testing"

	"clapper/internal/config"
)

// NewContent builds a runnable per-production content config: defaults from
// cfg, a short script, and a real avatar image file under the test base dir.
func NewContent(t testing.TB, cfg *config.Config) config.Content {
	t.Helper()

	imagePath := filepath.Join(BaseDir(cfg), "assets", "anchor.png")
	WriteFile(t, imagePath, 256)

	content := cfg.NewContent()
	content.Name = "Test Production"
	content.Script = "Hello from the test newsroom."
	content.AvatarImage = imagePath
	return content
}
