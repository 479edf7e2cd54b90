// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"time"

	"github.com/conjurekit/conjure/pkg/state"
	"github.com/conjurekit/conjure/pkg/types"
	"github.com/conjurekit/conjure/pkg/watcher"
)

// RunRecorder persists pipeline run records
type RunRecorder interface {
	BeginRun(require []string) (*state.RunRecord, error)
	CompleteRun(runErr error) error
	LatestRun() (*state.RunRecord, error)
	ListRuns() ([]*state.RunRecord, error)
}

// RunNotifier sends desktop notifications about pipeline runs
type RunNotifier interface {
	NotifyRunStart(project string)
	NotifyRunSuccess(project string, duration time.Duration)
	NotifyRunFailure(project string, err error)
}

// ConfigManager loads and validates project configuration
type ConfigManager interface {
	FindConfig(root string) (string, error)
	LoadConfig(path string) (*types.ProjectConfig, error)
	ValidateConfig(config *types.ProjectConfig) error
	GetDefaultConfig() *types.ProjectConfig
	SaveConfig(path string, config *types.ProjectConfig) error
}

// FileWatcher watches a directory tree for settled changes
type FileWatcher interface {
	Watch(root string, callback func(watcher.FileEvent)) error
	SetSettlingDelay(delay time.Duration)
	Close() error
}

// Dependencies bundles the collaborators a session needs. Zero fields
// are filled in with defaults by the runtime factory.
type Dependencies struct {
	Recorder RunRecorder
	Notifier RunNotifier
	Config   ConfigManager
	Watcher  FileWatcher
}
