// Package cli wires the packing engine, persistence, import and export
// into the squarepack command line.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

var (
	logLevel      string // Log verbosity level
	appConfigPath string // Path of the application config file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "squarepack",
	Short: "Random sequential packing of unit squares into a square container",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
	SilenceUsage: true,
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadAppConfig reads the application config, falling back to defaults
// with a warning when the file cannot be parsed.
func loadAppConfig() model.AppConfig {
	app, err := project.LoadAppConfig(appConfigPath)
	if err != nil {
		logrus.Warnf("Using default settings: %v", err)
		return model.DefaultAppConfig()
	}
	return app
}

// init sets up persistent flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&appConfigPath, "app-config", project.DefaultConfigPath(), "Application config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(profileCmd)
}
