// Package notifier provides desktop notifications for pipeline runs
package notifier

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/conjurekit/conjure/pkg/logger"
)

// RunNotifier handles run notifications
type RunNotifier struct {
	enabled      bool
	successSound string
	failureSound string
	logger       logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled      bool
	SuccessSound string
	FailureSound string
}

// New creates a new run notifier
func New(config Config, log logger.Logger) *RunNotifier {
	return &RunNotifier{
		enabled:      config.Enabled,
		successSound: config.SuccessSound,
		failureSound: config.FailureSound,
		logger:       log,
	}
}

// NotifyRunStart notifies that a pipeline run has started
func (n *RunNotifier) NotifyRunStart(project string) {
	if !n.enabled {
		return
	}

	title := "🪄 Conjure"
	message := fmt.Sprintf("Running pipeline in %s...", project)

	n.sendNotification(title, message, "")
}

// NotifyRunSuccess notifies that a pipeline run succeeded
func (n *RunNotifier) NotifyRunSuccess(project string, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ Pipeline Succeeded"
	message := fmt.Sprintf("%s finished in %s", project, formatDuration(duration))

	n.sendNotification(title, message, n.successSound)
}

// NotifyRunFailure notifies that a pipeline run failed
func (n *RunNotifier) NotifyRunFailure(project string, err error) {
	if !n.enabled {
		return
	}

	title := "❌ Pipeline Failed"
	message := fmt.Sprintf("%s: %v", project, err)

	n.sendNotification(title, message, n.failureSound)
}

func (n *RunNotifier) sendNotification(title, message, soundName string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}

	if soundName != "" {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
