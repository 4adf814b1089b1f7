package report

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable text summary of the run, suitable for
// terminal output at the end of a cleanup.
func Summary(r *Report) string {
	var sb strings.Builder

	mode := "cleanup"
	if r.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(&sb, "Run %s (%s) on project %s\n", r.RunID, mode, r.Project)

	for _, env := range r.Environments {
		fmt.Fprintf(&sb, "  %s: considered %d, kept %d, deleted %d",
			env.Environment, env.Considered, env.Kept, env.Deleted)
		if env.SkippedProtected > 0 {
			fmt.Fprintf(&sb, ", protected %d", env.SkippedProtected)
		}
		if env.SkippedUndeletable > 0 {
			fmt.Fprintf(&sb, ", undeletable %d", env.SkippedUndeletable)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Totals: considered %d, kept %d, deleted %d, protected %d, undeletable %d\n",
		r.Totals.Considered, r.Totals.Kept, r.Totals.Deleted,
		r.Totals.SkippedProtected, r.Totals.SkippedUndeletable)

	if len(r.DeletionErrors) > 0 {
		fmt.Fprintf(&sb, "%d deletion(s) failed:\n", len(r.DeletionErrors))
		for _, e := range r.DeletionErrors {
			if e.StatusCode > 0 {
				fmt.Fprintf(&sb, "  - %s (%s, status %d): %s\n", e.ID, e.Environment, e.StatusCode, e.Message)
			} else {
				fmt.Fprintf(&sb, "  - %s (%s): %s\n", e.ID, e.Environment, e.Message)
			}
		}
	}

	return sb.String()
}
