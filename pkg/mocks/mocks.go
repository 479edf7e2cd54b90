// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conjurekit/conjure/pkg/interfaces"
	"github.com/conjurekit/conjure/pkg/state"
	"github.com/conjurekit/conjure/pkg/types"
	"github.com/conjurekit/conjure/pkg/watcher"
)

// MockRecorder is a mock implementation of RunRecorder for testing
type MockRecorder struct {
	mu      sync.Mutex
	records []*state.RunRecord
	current *state.RunRecord

	BeginError    error
	CompleteError error
}

// NewMockRecorder creates a new mock run recorder
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{}
}

// BeginRun opens a new in-memory run record
func (m *MockRecorder) BeginRun(require []string) (*state.RunRecord, error) {
	if m.BeginError != nil {
		return nil, m.BeginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record := &state.RunRecord{
		RunID:     uuid.New().String(),
		Status:    types.RunStatusRunning,
		Require:   append([]string(nil), require...),
		StartedAt: time.Now().UTC(),
	}
	m.current = record
	m.records = append([]*state.RunRecord{record}, m.records...)
	return record, nil
}

// CompleteRun closes the current in-memory record
func (m *MockRecorder) CompleteRun(runErr error) error {
	if m.CompleteError != nil {
		return m.CompleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("no run in progress")
	}

	m.current.CompletedAt = time.Now().UTC()
	m.current.Duration = m.current.CompletedAt.Sub(m.current.StartedAt)
	if runErr != nil {
		m.current.Status = types.RunStatusFailed
		m.current.LastError = runErr.Error()
	} else {
		m.current.Status = types.RunStatusSucceeded
	}
	m.current = nil
	return nil
}

// LatestRun returns the most recent record
func (m *MockRecorder) LatestRun() (*state.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) == 0 {
		return nil, fmt.Errorf("no run records")
	}
	return m.records[0], nil
}

// ListRuns returns all records, newest first
func (m *MockRecorder) ListRuns() ([]*state.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*state.RunRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// MockNotifier is a mock implementation of RunNotifier for testing
type MockNotifier struct {
	mu sync.Mutex

	Starts    []string
	Successes []string
	Failures  []string
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyRunStart records a start notification
func (m *MockNotifier) NotifyRunStart(project string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Starts = append(m.Starts, project)
}

// NotifyRunSuccess records a success notification
func (m *MockNotifier) NotifyRunSuccess(project string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, project)
}

// NotifyRunFailure records a failure notification
func (m *MockNotifier) NotifyRunFailure(project string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, fmt.Sprintf("%s: %v", project, err))
}

// MockWatcher is a mock implementation of FileWatcher for testing
type MockWatcher struct {
	mu       sync.Mutex
	callback func(watcher.FileEvent)
	closed   bool

	WatchError error
	Roots      []string
}

// NewMockWatcher creates a new mock file watcher
func NewMockWatcher() *MockWatcher {
	return &MockWatcher{}
}

// Watch records the watched root and keeps the callback for Emit
func (m *MockWatcher) Watch(root string, callback func(watcher.FileEvent)) error {
	if m.WatchError != nil {
		return m.WatchError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Roots = append(m.Roots, root)
	m.callback = callback
	return nil
}

// SetSettlingDelay is a no-op on the mock
func (m *MockWatcher) SetSettlingDelay(delay time.Duration) {}

// Close marks the watcher closed
func (m *MockWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called
func (m *MockWatcher) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Emit delivers a synthetic file event to the registered callback
func (m *MockWatcher) Emit(event watcher.FileEvent) {
	m.mu.Lock()
	callback := m.callback
	m.mu.Unlock()

	if callback != nil {
		callback(event)
	}
}

// Compile-time interface checks
var (
	_ interfaces.RunRecorder = (*MockRecorder)(nil)
	_ interfaces.RunNotifier = (*MockNotifier)(nil)
	_ interfaces.FileWatcher = (*MockWatcher)(nil)
)
