// Package cli provides the command-line interface for Conjure
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	projectRoot string
	verbosity   string
	version     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conjure",
	Short: "The plugin pipeline that assembles your project",
	Long: `🪄 Conjure - Composable plugin pipelines for project generation

Conjure resolves the plugins your project requires, runs them over a shared
context, and unwinds them in reverse order so every plugin gets a chance to
finalize what the ones after it produced.`,

	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("🪄 Conjure v%s\n", version)
			return
		}
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: conjure.config)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "project root directory")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(projectRoot)
		viper.SetConfigName("conjure")
		viper.SetConfigType("json")

		// Also try YAML
		viper.SetConfigName("conjure")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CONJURE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	wand := "🪄"
	fmt.Printf("%s %s %s\n", wand, color.GreenString("[Conjure]"), message)
}

func printError(message string) {
	wand := "🪄"
	fmt.Fprintf(os.Stderr, "%s %s %s\n", wand, color.RedString("[Conjure]"), message)
}

func printInfo(message string) {
	wand := "🪄"
	fmt.Printf("%s %s %s\n", wand, color.CyanString("[Conjure]"), message)
}

func printWarning(message string) {
	wand := "🪄"
	fmt.Printf("%s %s %s\n", wand, color.YellowString("[Conjure]"), message)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Conjure",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🪄 Conjure v%s\n", version)
		},
	}
}
