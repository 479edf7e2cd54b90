package types_test

import (
	"encoding/json"
	"testing"

	"github.com/conjurekit/conjure/pkg/types"
)

func TestProjectConfig_Defaults(t *testing.T) {
	cfg := &types.ProjectConfig{Version: "1.0"}

	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("expected default log level info, got %q", got)
	}
	if got := cfg.GetLogFile(); got != "" {
		t.Errorf("expected empty log file, got %q", got)
	}
	if !cfg.Notifications.IsEnabled() {
		t.Error("notifications must default to enabled")
	}
}

func TestWatchConfig_SettlingDelay(t *testing.T) {
	w := &types.WatchConfig{}
	if got := w.GetSettlingDelay(); got != 1000 {
		t.Errorf("expected default settling delay 1000, got %d", got)
	}

	delay := 250
	w.SettlingDelay = &delay
	if got := w.GetSettlingDelay(); got != 250 {
		t.Errorf("expected settling delay 250, got %d", got)
	}
}

func TestNotificationConfig_Disabled(t *testing.T) {
	disabled := false
	n := &types.NotificationConfig{Enabled: &disabled}
	if n.IsEnabled() {
		t.Error("expected notifications to be disabled")
	}
}

func TestProjectConfig_JSONRoundTrip(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"require": ["tools/timing", "tools/recovery:verbose"],
		"defaultMember": "plugin_default",
		"allowlist": ["tools/**"],
		"logging": {"level": "debug"},
		"watch": {"paths": ["src"], "exclude": ["generated"], "settlingDelay": 500}
	}`)

	var cfg types.ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	if len(cfg.Require) != 2 {
		t.Errorf("expected 2 required plugins, got %d", len(cfg.Require))
	}
	if cfg.GetLogLevel() != "debug" {
		t.Errorf("expected debug level, got %q", cfg.GetLogLevel())
	}
	if cfg.Watch.GetSettlingDelay() != 500 {
		t.Errorf("expected settling delay 500, got %d", cfg.Watch.GetSettlingDelay())
	}
}
