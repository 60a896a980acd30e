package main

import (
	"log/slog"
	"strings"
	"sync"

	"photodup/internal/config"
	"photodup/internal/library"
	"photodup/internal/logging"
	"photodup/internal/scanner"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		override := *cfg
		override.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		return logging.NewFromConfig(&override)
	}
	return logging.NewFromConfig(cfg)
}

// newScanService wires a scan service over the configured library directory.
func (c *commandContext) newScanService() (*scanner.Service, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, nil, err
	}
	lib := library.NewDir(cfg.Paths.LibraryDir)
	return scanner.New(cfg, lib, logger), cfg, nil
}
