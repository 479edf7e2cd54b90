package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [plugin...]",
		Short: "Run the configured pipeline once",
		Long: `Run the pipeline defined by the project configuration. Any plugin
references given as arguments are activated after the configured ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(args)
		},
	}

	return cmd
}

func runPipeline(extra []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	cfg.Require = append(cfg.Require, extra...)

	session := newSession(cfg)

	printInfo(fmt.Sprintf("Conjure v%s running %d plugin(s)", version, len(cfg.Require)))

	if _, err := session.RunOnce(context.Background()); err != nil {
		printError(fmt.Sprintf("Pipeline failed: %v", err))
		return err
	}

	printSuccess("Pipeline completed")
	return nil
}
