package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deckhand-hq/deckhand/pkg/cleanup"
	"deckhand-hq/deckhand/pkg/cli"
	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/report"
)

var runFlags struct {
	dryRun      bool
	environment string
	reportPath  string
	output      string
	progress    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one cleanup pass",
	Long: `Execute one cleanup pass against the configured project.

The run fetches the project's deployments, classifies them against the
retention policy, deletes the expendable ones, and writes a JSON report
artifact. A dry run classifies and reports without deleting anything.

Examples:
  # One cleanup pass with the default config
  deckhand run

  # Preview what would be deleted
  deckhand run --dry-run

  # Clean only preview deployments
  deckhand run --environment preview

  # Write the report artifact somewhere else
  deckhand run --report /tmp/cleanup.json`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "classify and report without deleting")
	runCmd.Flags().StringVarP(&runFlags.environment, "environment", "e", "", "override environment selector (all, production, preview)")
	runCmd.Flags().StringVar(&runFlags.reportPath, "report", "", "override report artifact path")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text", "output format: text, json")
	runCmd.Flags().BoolVar(&runFlags.progress, "progress", false, "show a progress bar while deleting")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to load config: %w", err))
	}

	// Apply flag overrides
	if runFlags.dryRun {
		cfg.Retention.DryRun = true
	}
	if runFlags.environment != "" {
		switch runFlags.environment {
		case "all", "production", "preview":
		default:
			return cli.NewCommandError("run", config.FieldError{
				Field:   "retention.environment",
				Message: fmt.Sprintf("must be one of all, production, preview (got %q)", runFlags.environment),
			})
		}
		cfg.Retention.Environment = runFlags.environment
	}
	if runFlags.reportPath != "" {
		cfg.Report.Path = runFlags.reportPath
	}

	var progress func(environment string, done, total int)
	if runFlags.progress && !cfg.Retention.DryRun {
		progress = cli.NewDeletionProgress(os.Stderr).Observe
	}

	runner, closeFn, err := newRunner(cfg, nil, progress)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer closeFn()

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	rep, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, cleanup.ErrDeletionsFailed) {
		return cli.NewCommandError("run", err)
	}

	if runFlags.output == "json" {
		if ferr := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, rep); ferr != nil {
			return cli.NewCommandError("run", ferr)
		}
	} else {
		fmt.Println(report.Summary(rep))
	}

	// Deletion failures surface as a non-zero exit after the report is
	// printed and persisted.
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}
