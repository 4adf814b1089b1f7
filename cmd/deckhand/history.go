package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"deckhand-hq/deckhand/pkg/cli"
	"deckhand-hq/deckhand/pkg/history"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past cleanup runs",
	Long: `List past cleanup runs recorded in the local history database.

Examples:
  # The 20 most recent runs
  deckhand history

  # All runs as CSV
  deckhand history --limit 0 --output csv

  # Full report of one run
  deckhand history show 6b1f0c2e-...`,
	RunE: listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the full report of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json, csv")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum runs to list (0 for all)")
}

// runRows renders history runs as a table.
type runRows []history.Run

func (runRows) Headers() []string {
	return []string{"run_id", "started", "project", "mode", "considered", "kept", "deleted", "errors"}
}

func (rs runRows) Rows() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		mode := "delete"
		if r.DryRun {
			mode = "dry-run"
		}
		rows = append(rows, []string{
			r.RunID,
			r.StartedAt.Local().Format(time.RFC3339),
			r.Project,
			mode,
			strconv.Itoa(r.Considered),
			strconv.Itoa(r.Kept),
			strconv.Itoa(r.Deleted),
			strconv.Itoa(r.Errors),
		})
	}
	return rows
}

func openHistory() (history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled in the configuration")
	}
	return history.NewSQLiteStore(history.SQLiteConfig{Path: cfg.History.Path})
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	formatter := cli.NewFormatter(cli.OutputFormat(historyFlags.output))
	if err := formatter.FormatTo(os.Stdout, runRows(runs)); err != nil {
		return cli.NewCommandError("history", err)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, run.Report); err != nil {
		return cli.NewCommandError("history", err)
	}
	return nil
}
