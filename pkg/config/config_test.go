package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conjurekit/conjure/pkg/config"
	"github.com/conjurekit/conjure/pkg/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "conjure.config", `{
		"version": "1.0",
		"require": ["tools/timing", "tools/metadata:stamp"],
		"allowlist": ["tools/**"]
	}`)

	m := config.NewManager()
	cfg, err := m.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, []string{"tools/timing", "tools/metadata:stamp"}, cfg.Require)
	assert.Equal(t, []string{"tools/**"}, cfg.Allowlist)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "conjure.config", `
version: "1.0"
require:
  - tools/timing
logging:
  level: debug
watch:
  paths:
    - src
  settlingDelay: 250
`)

	m := config.NewManager()
	cfg, err := m.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"tools/timing"}, cfg.Require)
	assert.Equal(t, "debug", cfg.GetLogLevel())
	assert.Equal(t, 250, cfg.Watch.GetSettlingDelay())
}

func TestLoadConfig_Invalid(t *testing.T) {
	m := config.NewManager()

	t.Run("missing file", func(t *testing.T) {
		_, err := m.LoadConfig(filepath.Join(t.TempDir(), "absent.config"))
		assert.Error(t, err)
	})

	t.Run("garbage content", func(t *testing.T) {
		path := writeConfig(t, "conjure.config", "{not valid")
		_, err := m.LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	m := config.NewManager()

	tests := []struct {
		name    string
		cfg     *types.ProjectConfig
		wantErr string
	}{
		{
			name: "valid",
			cfg:  &types.ProjectConfig{Version: "1.0", Require: []string{"tools/timing"}},
		},
		{
			name:    "bad version",
			cfg:     &types.ProjectConfig{Version: "2.0"},
			wantErr: "unsupported config version",
		},
		{
			name:    "empty module path",
			cfg:     &types.ProjectConfig{Version: "1.0", Require: []string{":member"}},
			wantErr: "empty module path",
		},
		{
			name:    "empty member",
			cfg:     &types.ProjectConfig{Version: "1.0", Require: []string{"tools/timing:"}},
			wantErr: "empty member",
		},
		{
			name:    "duplicate reference",
			cfg:     &types.ProjectConfig{Version: "1.0", Require: []string{"a/b", "a/b"}},
			wantErr: "duplicate reference",
		},
		{
			name:    "bad log level",
			cfg:     &types.ProjectConfig{Version: "1.0", Logging: &types.LoggingConfig{Level: "loud"}},
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateConfig(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetDefaultConfig(t *testing.T) {
	m := config.NewManager()
	cfg := m.GetDefaultConfig()

	require.NoError(t, m.ValidateConfig(cfg))
	assert.Equal(t, "1.0", cfg.Version)
	assert.True(t, cfg.Notifications.IsEnabled())
	assert.NotEmpty(t, cfg.Watch.Exclude)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	m := config.NewManager()
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)

	cfg := m.GetDefaultConfig()
	cfg.Require = []string{"tools/timing"}
	require.NoError(t, m.SaveConfig(path, cfg))

	found, err := m.FindConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	loaded, err := m.LoadConfig(found)
	require.NoError(t, err)
	assert.Equal(t, cfg.Require, loaded.Require)
}
