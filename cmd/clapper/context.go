package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clapper/internal/catalog"
	"clapper/internal/config"
	"clapper/internal/logging"
	"clapper/internal/pipeline"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// buildProducer wires a Producer from the loaded configuration. The catalog
// is attached when it opens; a catalog failure downgrades to a warning so
// productions still run. The returned cleanup closes the catalog store.
func (c *commandContext) buildProducer() (*pipeline.Producer, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var opts []pipeline.Option
	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		logger.Warn("catalog unavailable, completions will not be recorded", logging.Error(err))
	} else {
		opts = append(opts, pipeline.WithCatalog(store))
		cleanup = func() { _ = store.Close() }
	}

	producer, err := pipeline.FromConfig(cfg, logger, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return producer, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
