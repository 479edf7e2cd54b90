// Package watcher provides recursive file watching for watch mode
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/utils"
)

// FileEventType classifies a file system change
type FileEventType string

const (
	FileCreated  FileEventType = "created"
	FileModified FileEventType = "modified"
	FileDeleted  FileEventType = "deleted"
	FileRenamed  FileEventType = "renamed"
)

// FileEvent describes one settled file system change
type FileEvent struct {
	Path    string
	Type    FileEventType
	IsDir   bool
	ModTime time.Time
}

// Watcher watches a directory tree and reports settled file changes
type Watcher struct {
	watcher       *fsnotify.Watcher
	logger        logger.Logger
	exclusions    *utils.ExclusionMatcher
	callback      func(FileEvent)
	settling      time.Duration
	pendingEvents map[string]time.Time
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// New creates a watcher with the given exclusion patterns
func New(log logger.Logger, exclude []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	exclusions, err := utils.NewExclusionMatcher(exclude)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("invalid exclusion patterns: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		watcher:       fsWatcher,
		logger:        log,
		exclusions:    exclusions,
		settling:      100 * time.Millisecond,
		pendingEvents: make(map[string]time.Time),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// SetSettlingDelay sets the delay for event settling
func (w *Watcher) SetSettlingDelay(delay time.Duration) {
	w.mu.Lock()
	w.settling = delay
	w.mu.Unlock()
}

// Watch starts watching root recursively and delivers settled events to
// callback from a background goroutine.
func (w *Watcher) Watch(root string, callback func(FileEvent)) error {
	w.mu.Lock()
	w.callback = callback
	w.mu.Unlock()

	if err := w.addDirectory(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	go w.processEvents()

	w.logger.Info(fmt.Sprintf("Started watching %s", root))
	return nil
}

// List returns all watched paths
func (w *Watcher) List() []string {
	return w.watcher.WatchList()
}

func (w *Watcher) addDirectory(dir string) error {
	if w.exclusions.IsExcluded(dir) {
		return nil
	}

	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			subdir := filepath.Join(dir, entry.Name())
			if !w.exclusions.IsExcluded(subdir) {
				if err := w.addDirectory(subdir); err != nil {
					w.logger.Warn(fmt.Sprintf("Failed to watch subdirectory %s: %v", subdir, err))
				}
			}
		}
	}

	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if w.exclusions.IsExcluded(event.Name) {
				continue
			}

			// New directories join the watch set immediately
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addDirectory(event.Name)
				}
			}

			w.handleEventWithSettling(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(fmt.Sprintf("Watcher error: %v", err))
		}
	}
}

func (w *Watcher) handleEventWithSettling(event fsnotify.Event) {
	w.mu.Lock()
	w.pendingEvents[event.Name] = time.Now()
	settlingDelay := w.settling
	w.mu.Unlock()

	time.AfterFunc(settlingDelay, func() {
		w.mu.Lock()
		lastEventTime, exists := w.pendingEvents[event.Name]
		if !exists || time.Since(lastEventTime) < settlingDelay {
			// A newer event superseded this one
			w.mu.Unlock()
			return
		}
		delete(w.pendingEvents, event.Name)
		callback := w.callback
		w.mu.Unlock()

		if callback != nil {
			callback(w.convertEvent(event))
		}
	})
}

func (w *Watcher) convertEvent(event fsnotify.Event) FileEvent {
	fileEvent := FileEvent{Path: event.Name}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		fileEvent.Type = FileCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		fileEvent.Type = FileModified
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		fileEvent.Type = FileDeleted
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		fileEvent.Type = FileRenamed
	default:
		fileEvent.Type = FileModified
	}

	if info, err := os.Stat(event.Name); err == nil {
		fileEvent.IsDir = info.IsDir()
		fileEvent.ModTime = info.ModTime()
	} else if fileEvent.Type != FileDeleted {
		// The file vanished before we could stat it
		fileEvent.Type = FileDeleted
	}

	return fileEvent
}
