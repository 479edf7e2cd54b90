package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline and re-run it on file changes",
		Long: `Start Conjure in watch mode. The pipeline runs once immediately, then
again whenever a watched file changes and the change has settled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}

	return cmd
}

func runWatch() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	session := newSession(cfg)
	session.EnableConfigReload(getConfigPath())

	printInfo(fmt.Sprintf("Starting Conjure v%s in watch mode", version))

	// Handle shutdown signals with context cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-sigChan
		printInfo(fmt.Sprintf("Received signal: %s", sig))
		cancel()
	}()

	if err := session.Watch(ctx); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	printSuccess("Conjure stopped gracefully")
	return nil
}
