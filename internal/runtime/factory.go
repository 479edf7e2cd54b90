package runtime

import (
	"github.com/conjurekit/conjure/pkg/config"
	"github.com/conjurekit/conjure/pkg/interfaces"
	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/notifier"
	"github.com/conjurekit/conjure/pkg/plugins"
	"github.com/conjurekit/conjure/pkg/project"
	"github.com/conjurekit/conjure/pkg/registry"
	"github.com/conjurekit/conjure/pkg/state"
	"github.com/conjurekit/conjure/pkg/types"
)

// DependencyFactory creates default implementations of session
// dependencies. Centralizing creation keeps constructors free of
// hidden concrete fallbacks.
type DependencyFactory struct {
	projectRoot string
	logger      logger.Logger
	config      *types.ProjectConfig
}

// NewDependencyFactory creates a new dependency factory
func NewDependencyFactory(projectRoot string, log logger.Logger, cfg *types.ProjectConfig) *DependencyFactory {
	return &DependencyFactory{
		projectRoot: projectRoot,
		logger:      log,
		config:      cfg,
	}
}

// CreateDefaults creates all default session dependencies
func (f *DependencyFactory) CreateDefaults() interfaces.Dependencies {
	return interfaces.Dependencies{
		Recorder: state.NewRecorder(f.projectRoot, f.logger),
		Notifier: f.createNotifier(),
		Config:   config.NewManager(),
	}
}

// CreateWithOverrides creates dependencies with specific overrides.
// Useful for testing or custom configurations.
func (f *DependencyFactory) CreateWithOverrides(overrides interfaces.Dependencies) interfaces.Dependencies {
	deps := f.CreateDefaults()

	if overrides.Recorder != nil {
		deps.Recorder = overrides.Recorder
	}
	if overrides.Notifier != nil {
		deps.Notifier = overrides.Notifier
	}
	if overrides.Config != nil {
		deps.Config = overrides.Config
	}
	if overrides.Watcher != nil {
		deps.Watcher = overrides.Watcher
	}

	return deps
}

func (f *DependencyFactory) createNotifier() interfaces.RunNotifier {
	cfg := notifier.Config{Enabled: f.config.Notifications.IsEnabled()}
	if f.config.Notifications != nil {
		cfg.SuccessSound = f.config.Notifications.SuccessSound
		cfg.FailureSound = f.config.Notifications.FailureSound
	}
	return notifier.New(cfg, f.logger)
}

// NewRegistry returns a registry preloaded with the built-in plugins
func NewRegistry() *registry.Registry[*project.Context] {
	r := registry.New[*project.Context]()
	plugins.RegisterBuiltins(r)
	return r
}
