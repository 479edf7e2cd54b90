package cli

import (
	"fmt"
	"path/filepath"

	"github.com/conjurekit/conjure/internal/runtime"
	"github.com/conjurekit/conjure/pkg/config"
	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/types"
)

// getConfigPath returns the effective configuration file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(projectRoot, config.ConfigFileName)
}

// loadProjectConfig loads and validates the project configuration
func loadProjectConfig() (*types.ProjectConfig, error) {
	manager := config.NewManager()
	cfg, err := manager.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newSession builds a session from the loaded configuration
func newSession(cfg *types.ProjectConfig) *runtime.Session {
	log := logger.CreateLogger(cfg.GetLogFile(), effectiveLogLevel(cfg))

	factory := runtime.NewDependencyFactory(projectRoot, log, cfg)
	deps := factory.CreateDefaults()

	return runtime.NewSession(cfg, projectRoot, log, runtime.NewRegistry(), deps)
}

// effectiveLogLevel prefers the --verbosity flag over the config file
func effectiveLogLevel(cfg *types.ProjectConfig) string {
	if verbosity != "" && verbosity != "info" {
		return verbosity
	}
	return cfg.GetLogLevel()
}
