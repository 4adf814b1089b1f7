/*
Package cli provides command-line interface utilities for Deckhand.

The cli package includes output formatters, a deletion progress
renderer, and common CLI helpers used by the deckhand command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, runs); err != nil {
		return err
	}

Results that implement the Tabular interface render as aligned columns in
text mode and as rows in CSV mode.

Progress Reporting:

DeletionProgress renders one bar per environment batch and plugs
directly into the orchestrator's progress callback:

	runner, _ := cleanup.NewRunner(cleanup.Options{
		...
		Progress: cli.NewDeletionProgress(os.Stderr).Observe,
	})

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
