package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"deckhand-hq/deckhand/pkg/cleanup"
	"deckhand-hq/deckhand/pkg/cli"
	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/telemetry/metrics"
)

var daemonFlags struct {
	schedule string
	listen   string
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run recurring cleanups on a cron schedule",
	Long: `Run Deckhand as a long-lived process that executes cleanup passes on a
cron schedule and exposes Prometheus metrics and a health endpoint.

When watch_config is enabled, changes to the configuration file update
the retention policy without a restart.

Examples:
  # Daily cleanup at 3 AM (the default schedule)
  deckhand daemon

  # Every 6 hours, metrics on all interfaces
  deckhand daemon --schedule "0 */6 * * *" --listen 0.0.0.0:9190`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVar(&daemonFlags.schedule, "schedule", "", "override cron schedule")
	daemonCmd.Flags().StringVar(&daemonFlags.listen, "listen", "", "override metrics listen address")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("daemon", fmt.Errorf("failed to load config: %w", err))
	}

	if daemonFlags.schedule != "" {
		cfg.Daemon.Schedule = daemonFlags.schedule
	}
	if daemonFlags.listen != "" {
		cfg.Daemon.ListenAddress = daemonFlags.listen
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	}

	runner, closeFn, err := newRunner(cfg, collector, nil)
	if err != nil {
		return cli.NewCommandError("daemon", err)
	}
	defer closeFn()

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	scheduler := cleanup.NewScheduler(runner, cfg.Daemon.Schedule)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("daemon", err)
	}
	defer scheduler.Stop()

	fmt.Printf("Deckhand daemon v%s\n", Version)
	fmt.Printf("✓ Schedule: %s\n", cfg.Daemon.Schedule)
	if next := scheduler.NextRun(); next != nil {
		fmt.Printf("✓ Next run: %s\n", next.Format(time.RFC3339))
	}

	errChan := make(chan error, 1)
	if collector != nil {
		srv := metrics.NewServer(cfg.Daemon.ListenAddress, collector, scheduler.NextRun)
		go func() {
			if err := srv.Start(ctx); err != nil {
				errChan <- fmt.Errorf("telemetry listener: %w", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Daemon.ListenAddress)
		fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Daemon.ListenAddress)
	}

	if cfg.Daemon.WatchConfig {
		watcher := config.NewWatcher(cfgFile, 0)
		go func() {
			if err := watcher.Watch(ctx, func() error {
				fresh, err := config.LoadConfigWithEnvOverrides(cfgFile)
				if err != nil {
					return err
				}
				runner.UpdateRetention(fresh.Retention)
				return nil
			}); err != nil {
				errChan <- fmt.Errorf("config watcher: %w", err)
			}
		}()
		fmt.Printf("✓ Watching %s for policy changes\n", cfgFile)
	}

	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errChan:
		return cli.NewCommandError("daemon", err)
	case <-ctx.Done():
		fmt.Println("\nShutting down gracefully...")
		return nil
	}
}
