// Package types provides core types and configurations for Conjure
package types

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunStatus represents the current state of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// ProjectConfig is the root configuration for a Conjure project
type ProjectConfig struct {
	Version       string              `json:"version" yaml:"version"`
	Require       []string            `json:"require" yaml:"require"`
	DefaultMember string              `json:"defaultMember,omitempty" yaml:"defaultMember,omitempty"`
	Allowlist     []string            `json:"allowlist,omitempty" yaml:"allowlist,omitempty"`
	Logging       *LoggingConfig      `json:"logging,omitempty" yaml:"logging,omitempty"`
	Watch         *WatchConfig        `json:"watch,omitempty" yaml:"watch,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level LogLevel `json:"level,omitempty" yaml:"level,omitempty"`
	File  string   `json:"file,omitempty" yaml:"file,omitempty"`
}

// WatchConfig controls the file watcher used by watch mode
type WatchConfig struct {
	Paths         []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	Exclude       []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	SettlingDelay *int     `json:"settlingDelay,omitempty" yaml:"settlingDelay,omitempty"`
}

// GetSettlingDelay returns the settling delay in milliseconds
func (w *WatchConfig) GetSettlingDelay() int {
	if w.SettlingDelay != nil {
		return *w.SettlingDelay
	}
	return 1000
}

// NotificationConfig controls desktop notifications
type NotificationConfig struct {
	Enabled      *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	SuccessSound string `json:"successSound,omitempty" yaml:"successSound,omitempty"`
	FailureSound string `json:"failureSound,omitempty" yaml:"failureSound,omitempty"`
}

// IsEnabled reports whether notifications are on. Defaults to true.
func (n *NotificationConfig) IsEnabled() bool {
	return n == nil || n.Enabled == nil || *n.Enabled
}

// GetLogLevel returns the configured log level, defaulting to info
func (c *ProjectConfig) GetLogLevel() string {
	if c.Logging != nil && c.Logging.Level != "" {
		return string(c.Logging.Level)
	}
	return string(LogLevelInfo)
}

// GetLogFile returns the configured log file path, if any
func (c *ProjectConfig) GetLogFile() string {
	if c.Logging != nil {
		return c.Logging.File
	}
	return ""
}
