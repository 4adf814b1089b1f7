package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"deckhand-hq/deckhand/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply environment overrides, and report
any validation problems without contacting the platform.

Examples:
  deckhand validate
  deckhand validate --config /etc/deckhand/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ Configuration invalid (%d problems):\n", len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Printf("  - %s\n", fe)
			}
			return fmt.Errorf("configuration invalid")
		}
		return err
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Project:       %s\n", cfg.Platform.Project)
	fmt.Printf("  Environments:  %s\n", cfg.Retention.Environment)
	fmt.Printf("  Keep window:   %d-%d\n", cfg.Retention.MinKeep, cfg.Retention.MaxKeep)
	if cfg.Retention.OlderThanDays > 0 {
		fmt.Printf("  Age gate:      older than %d days\n", cfg.Retention.OlderThanDays)
	} else {
		fmt.Printf("  Age gate:      disabled\n")
	}
	if cfg.Retention.MaxDeletionsPerRun > 0 {
		fmt.Printf("  Deletion cap:  %d per run\n", cfg.Retention.MaxDeletionsPerRun)
	} else {
		fmt.Printf("  Deletion cap:  unlimited\n")
	}
	return nil
}
