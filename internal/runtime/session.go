// Package runtime wires configuration, the plugin registry, and the
// execution engine into runnable sessions.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/conjurekit/conjure/pkg/config"
	"github.com/conjurekit/conjure/pkg/interfaces"
	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/pipeline"
	"github.com/conjurekit/conjure/pkg/project"
	"github.com/conjurekit/conjure/pkg/registry"
	"github.com/conjurekit/conjure/pkg/types"
	"github.com/conjurekit/conjure/pkg/watcher"
)

// Session executes the configured pipeline over a project
type Session struct {
	mu          sync.RWMutex
	config      *types.ProjectConfig
	configPath  string
	projectRoot string
	logger      logger.Logger
	registry    *registry.Registry[*project.Context]
	deps        interfaces.Dependencies
}

// NewSession creates a session for the given project
func NewSession(
	cfg *types.ProjectConfig,
	projectRoot string,
	log logger.Logger,
	reg *registry.Registry[*project.Context],
	deps interfaces.Dependencies,
) *Session {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to resolve project root: %v", err))
		absRoot = projectRoot
	}

	return &Session{
		config:      cfg,
		projectRoot: absRoot,
		logger:      log,
		registry:    reg,
		deps:        deps,
	}
}

// ProjectRoot returns the absolute project root
func (s *Session) ProjectRoot() string { return s.projectRoot }

// EnableConfigReload makes watch mode follow edits to the config file at
// path: the next runs pick up the reloaded plugin list and settings.
func (s *Session) EnableConfigReload(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configPath = path
}

func (s *Session) currentConfig() *types.ProjectConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Session) setConfig(cfg *types.ProjectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// RunOnce executes the configured plugins once and records the outcome
func (s *Session) RunOnce(ctx context.Context) (*project.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := s.currentConfig()
	projectName := filepath.Base(s.projectRoot)
	s.notifyStart(projectName)

	record, err := s.deps.Recorder.BeginRun(cfg.Require)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	s.logger.Debug("Run started", logger.WithField("runId", record.RunID))

	pctx := project.NewContext(s.projectRoot, s.logger)
	engine := pipeline.New(pctx, s.registry.Lookup, pipeline.Options{
		DefaultMember: cfg.DefaultMember,
		Allowlist:     cfg.Allowlist,
	})
	pctx.BindRequire(engine.Require)

	specs := make([]any, len(cfg.Require))
	for i, ref := range cfg.Require {
		specs[i] = ref
	}

	start := time.Now()
	runErr := engine.Run(specs...)

	if err := s.deps.Recorder.CompleteRun(runErr); err != nil {
		s.logger.Warn("Failed to record run outcome", logger.WithField("error", err))
	}

	if runErr != nil {
		s.logger.Error("Pipeline failed", logger.WithField("error", runErr))
		s.notifyFailure(projectName, runErr)
		return pctx, runErr
	}

	s.logger.Success(fmt.Sprintf("Pipeline completed in %s", time.Since(start).Round(time.Millisecond)))
	s.notifySuccess(projectName, time.Since(start))
	return pctx, nil
}

// Watch runs the pipeline once, then re-runs it whenever a watched file
// changes, until ctx is cancelled. The initial run's error does not stop
// watch mode; only watcher setup failures do.
func (s *Session) Watch(ctx context.Context) error {
	cfg := s.currentConfig()

	fw := s.deps.Watcher
	if fw == nil {
		var exclude []string
		if cfg.Watch != nil {
			exclude = cfg.Watch.Exclude
		}
		created, err := watcher.New(s.logger, exclude)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		fw = created
	}
	defer fw.Close()

	if cfg.Watch != nil {
		fw.SetSettlingDelay(time.Duration(cfg.Watch.GetSettlingDelay()) * time.Millisecond)
	}

	if reload := s.startConfigReload(); reload != nil {
		defer reload.StopWatching()
	}

	changes := make(chan watcher.FileEvent, 64)
	for _, root := range s.watchRoots() {
		if err := fw.Watch(root, func(e watcher.FileEvent) {
			select {
			case changes <- e:
			default:
				// Drop events when a run is already queued up
			}
		}); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	group, ctx := NewSafeGroup(ctx, s.logger)
	group.Go(func() error {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("Initial run failed, watching for changes",
				logger.WithField("error", err))
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event := <-changes:
				s.logger.Info("Change detected, re-running pipeline",
					logger.WithField("path", event.Path))
				if _, err := s.RunOnce(ctx); err != nil {
					s.logger.Warn("Run failed, watching for changes",
						logger.WithField("error", err))
				}
			}
		}
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startConfigReload begins following the config file when
// EnableConfigReload was called. Reload failures keep the previous config.
func (s *Session) startConfigReload() *config.ReloadManager {
	s.mu.RLock()
	path := s.configPath
	s.mu.RUnlock()
	if path == "" {
		return nil
	}

	reload := config.NewReloadManager(path, s.logger)
	reload.AddCallback(func(cfg *types.ProjectConfig, err error) {
		if err != nil {
			s.logger.Warn("Keeping previous configuration",
				logger.WithField("error", err))
			return
		}
		s.setConfig(cfg)
		s.logger.Info("Configuration updated, next run uses the new settings",
			logger.WithField("require", len(cfg.Require)))
	})

	if err := reload.StartWatching(); err != nil {
		s.logger.Warn("Configuration hot-reload unavailable",
			logger.WithField("error", err))
		return nil
	}
	return reload
}

func (s *Session) watchRoots() []string {
	cfg := s.currentConfig()
	if cfg.Watch == nil || len(cfg.Watch.Paths) == 0 {
		return []string{s.projectRoot}
	}

	roots := make([]string, 0, len(cfg.Watch.Paths))
	for _, p := range cfg.Watch.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.projectRoot, p)
		}
		roots = append(roots, p)
	}
	return roots
}

func (s *Session) notifyStart(project string) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.NotifyRunStart(project)
	}
}

func (s *Session) notifySuccess(project string, d time.Duration) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.NotifyRunSuccess(project, d)
	}
}

func (s *Session) notifyFailure(project string, err error) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.NotifyRunFailure(project, err)
	}
}
