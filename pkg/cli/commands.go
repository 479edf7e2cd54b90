package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conjurekit/conjure/internal/runtime"
	"github.com/conjurekit/conjure/pkg/config"
	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/state"
	"github.com/conjurekit/conjure/pkg/types"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the outcome of recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func runStatus() error {
	log := logger.CreateLogger("", verbosity)
	recorder := state.NewRecorder(projectRoot, log)

	records, err := recorder.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to read run records: %w", err)
	}
	if len(records) == 0 {
		printInfo("No pipeline runs recorded yet")
		return nil
	}

	for _, record := range records {
		line := fmt.Sprintf("%s  %s  %s",
			record.StartedAt.Format("2006-01-02 15:04:05"),
			record.Status,
			record.RunID)
		switch record.Status {
		case types.RunStatusFailed:
			printError(fmt.Sprintf("%s (%s)", line, record.LastError))
		case types.RunStatusSucceeded:
			printSuccess(fmt.Sprintf("%s (%s)", line, record.Duration.Round(time.Millisecond)))
		default:
			printInfo(line)
		}
	}
	return nil
}

func runList() error {
	registry := runtime.NewRegistry()

	printInfo("Registered plugins:")
	for _, ref := range registry.Refs() {
		fmt.Printf("  %s\n", ref)
	}
	return nil
}

func runValidate() error {
	manager := config.NewManager()

	cfg, err := manager.LoadConfig(getConfigPath())
	if err != nil {
		printError(fmt.Sprintf("Configuration invalid: %v", err))
		return err
	}

	printSuccess(fmt.Sprintf("Configuration valid: %d plugin(s) required", len(cfg.Require)))
	return nil
}
