// Deckhand cleans up old deployments on static-hosting platforms.
//
// It fetches a project's deployment records, classifies them against a
// retention policy, and deletes the expendable ones while protecting
// aliased and live-production deployments.
//
// Usage:
//
//	# One cleanup pass with the default configuration
//	deckhand run
//
//	# Preview what a run would delete, without deleting
//	deckhand run --dry-run
//
//	# Recurring cleanups on a cron schedule with a metrics endpoint
//	deckhand daemon
//
//	# Inspect past runs
//	deckhand history
//	deckhand history show <run-id>
//
//	# Check a configuration file
//	deckhand validate
//
// For complete documentation, see: https://github.com/deckhand-hq/deckhand
package main

func main() {
	Execute()
}
