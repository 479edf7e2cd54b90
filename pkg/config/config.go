// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conjurekit/conjure/pkg/types"
	"github.com/conjurekit/conjure/pkg/utils"
)

// ConfigFileName is the canonical project configuration file name
const ConfigFileName = "conjure.config"

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// FindConfig locates the configuration file starting at root
func (m *Manager) FindConfig(root string) (string, error) {
	path := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no %s found in %s: %w", ConfigFileName, root, err)
	}
	return path, nil
}

// LoadConfig loads configuration from a file
func (m *Manager) LoadConfig(path string) (*types.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.ProjectConfig

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	// Fall back to YAML
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(config *types.ProjectConfig) error {
	// Check version
	if config.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", config.Version)
	}

	// Validate plugin references
	seen := make(map[string]bool)
	for i, ref := range config.Require {
		path := ref
		if idx := strings.LastIndex(ref, ":"); idx >= 0 {
			path = ref[:idx]
			if ref[idx+1:] == "" {
				return fmt.Errorf("require[%d]: empty member in reference %q", i, ref)
			}
		}
		if path == "" {
			return fmt.Errorf("require[%d]: empty module path in reference %q", i, ref)
		}
		if seen[ref] {
			return fmt.Errorf("require[%d]: duplicate reference %q", i, ref)
		}
		seen[ref] = true
	}

	// Validate allowlist patterns
	if len(config.Allowlist) > 0 {
		if _, err := utils.NewPatternMatcher(config.Allowlist); err != nil {
			return fmt.Errorf("invalid allowlist: %w", err)
		}
	}

	// Validate log level
	if config.Logging != nil && config.Logging.Level != "" {
		switch config.Logging.Level {
		case types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
		default:
			return fmt.Errorf("invalid log level: %s", config.Logging.Level)
		}
	}

	return nil
}

// GetDefaultConfig returns a default configuration
func (m *Manager) GetDefaultConfig() *types.ProjectConfig {
	enabled := true

	return &types.ProjectConfig{
		Version: "1.0",
		Require: []string{},
		Logging: &types.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Watch: &types.WatchConfig{
			Paths:   []string{"."},
			Exclude: utils.DefaultExclusions(),
		},
		Notifications: &types.NotificationConfig{
			Enabled: &enabled,
		},
	}
}

// SaveConfig writes a configuration file as indented JSON
func (m *Manager) SaveConfig(path string, config *types.ProjectConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (m *Manager) validateConfig(cfg *types.ProjectConfig) (*types.ProjectConfig, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
