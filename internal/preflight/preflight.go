package preflight

import (
	"context"
	"path/filepath"

	"clapper/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable environment check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Projects root", cfg.Paths.ProjectsRoot),
	}

	if dir := filepath.Dir(cfg.Paths.CatalogPath); dir != "" && dir != "." {
		results = append(results, CheckDirectoryAccess("Catalog directory", dir))
	}

	results = append(results, CheckFreeSpace("Project storage", cfg.Paths.ProjectsRoot, cfg.Pipeline.MinFreeSpaceGB))

	return results
}
