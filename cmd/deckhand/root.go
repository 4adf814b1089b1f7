package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "deckhand",
	Short: "Deckhand - deployment retention and cleanup",
	Long: `Deckhand keeps static-hosting projects tidy by deleting old deployments
according to a retention policy.

Every run classifies the project's deployments into kept and deleted sets:
  - Aliased and live-production deployments are never deleted
  - The newest deployments stay inside a configurable keep window
  - An optional age gate restricts deletion to sufficiently old records
  - The newest deployment of each preview branch survives

For more information, visit: https://github.com/deckhand-hq/deckhand`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads, validates and applies environment overrides to the
// configuration, then installs the configured logger. The --verbose
// flag forces debug logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logging.Setup(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}
