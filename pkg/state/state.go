// Package state provides persistent run records for Conjure
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/types"
)

// RunRecord is the persistent record of one pipeline run
type RunRecord struct {
	RunID       string          `json:"runId"`
	Status      types.RunStatus `json:"status"`
	Require     []string        `json:"require,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	Duration    time.Duration   `json:"duration,omitempty"`
	LastError   string          `json:"lastError,omitempty"`
	ProcessID   int             `json:"processId"`
	CompletedAt time.Time       `json:"completedAt,omitempty"`
}

// Recorder persists run records under <root>/.conjure/state
type Recorder struct {
	stateDir string
	logger   logger.Logger
	mu       sync.Mutex
	current  *RunRecord
}

// NewRecorder creates a recorder rooted at the given project directory
func NewRecorder(projectRoot string, log logger.Logger) *Recorder {
	stateDir := filepath.Join(projectRoot, ".conjure", "state")

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		log.Error("Failed to create state directory", logger.WithField("error", err))
	}

	return &Recorder{
		stateDir: stateDir,
		logger:   log,
	}
}

// BeginRun opens a new run record and persists it as running
func (r *Recorder) BeginRun(require []string) (*RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := &RunRecord{
		RunID:     uuid.New().String(),
		Status:    types.RunStatusRunning,
		Require:   append([]string(nil), require...),
		StartedAt: time.Now().UTC(),
		ProcessID: os.Getpid(),
	}

	if err := r.saveRecord(record); err != nil {
		return nil, fmt.Errorf("failed to save run record: %w", err)
	}

	r.current = record
	return record, nil
}

// CompleteRun closes the current run record with the outcome of runErr
func (r *Recorder) CompleteRun(runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return fmt.Errorf("no run in progress")
	}

	record := r.current
	record.CompletedAt = time.Now().UTC()
	record.Duration = record.CompletedAt.Sub(record.StartedAt)
	if runErr != nil {
		record.Status = types.RunStatusFailed
		record.LastError = runErr.Error()
	} else {
		record.Status = types.RunStatusSucceeded
	}

	if err := r.saveRecord(record); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	r.current = nil
	return nil
}

// LatestRun returns the most recently persisted run record
func (r *Recorder) LatestRun() (*RunRecord, error) {
	return r.loadRecordFile(filepath.Join(r.stateDir, "latest.json"))
}

// ListRuns returns all persisted run records, newest first
func (r *Recorder) ListRuns() ([]*RunRecord, error) {
	entries, err := os.ReadDir(r.stateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var records []*RunRecord
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "latest.json" || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		record, err := r.loadRecordFile(filepath.Join(r.stateDir, entry.Name()))
		if err != nil {
			r.logger.Warn("Skipping unreadable run record",
				logger.WithField("file", entry.Name()),
				logger.WithField("error", err))
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

// Cleanup removes all persisted run records
func (r *Recorder) Cleanup() error {
	return os.RemoveAll(r.stateDir)
}

func (r *Recorder) saveRecord(record *RunRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(r.stateDir, record.RunID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	// latest.json always mirrors the most recent record
	return os.WriteFile(filepath.Join(r.stateDir, "latest.json"), data, 0644)
}

func (r *Recorder) loadRecordFile(path string) (*RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &record, nil
}
