package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/cmd/slots"
	"github.com/denysvitali/swapctl/station"
)

var (
	interval     time.Duration
	cronSchedule string
)

var WatchCmd = &cobra.Command{
	Use:   "watch <pillar-id>",
	Short: "Keep a pillar's slot grid up to date",
	Long: `Re-fetch and print the slot grid of a pillar periodically until interrupted.

By default the grid is refreshed every watch.interval_seconds from the config. The pillar
list is re-read only when the cached copy (cache.pillar_ttl_seconds) expires.
With --cron the refresh follows a cron schedule instead.`,
	Example: `  # Refresh PI-1 every 10 seconds
  swapctl watch PI-1 --interval 10s

  # Refresh PI-1 at the start of every minute
  swapctl watch PI-1 --cron "* * * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		console, err := root.NewConsole(ctx)
		if err != nil {
			return err
		}
		pillarID := args[0]
		if _, err := console.OpenPillar(ctx, pillarID); err != nil {
			return fmt.Errorf("failed to get slots of pillar %s: %w", pillarID, err)
		}

		// The pillar list is cached for cache.pillar_ttl_seconds, so most ticks only fetch slots.
		refresh := func(ctx context.Context) error {
			pillar, found, err := console.Pillar(ctx, pillarID)
			if err != nil {
				return fmt.Errorf("load pillars: %w", err)
			}
			if !found {
				return fmt.Errorf("pillar %s is no longer listed for this account", pillarID)
			}
			grid, err := console.Refresh(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %s\n", time.Now().Format("2006-01-02 15:04:05"), pillar.DisplayName)
			slots.PrintGrid(grid)
			if !pillar.Summary.IsZero() {
				b := pillar.Summary
				fmt.Printf("Backend summary: Full: %d  Charging: %d  Low: %d  Empty: %d\n", b.Full, b.Charging, b.Low, b.Empty)
			}
			return nil
		}

		if cronSchedule != "" {
			return runCron(ctx, refresh)
		}

		every := interval
		if every <= 0 {
			every = root.GetConfig().WatchInterval()
		}
		watcher := station.NewWatcher(refresh, every)
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		fmt.Println("Press Ctrl+C to stop")

		<-ctx.Done()
		watcher.Stop()
		fmt.Println("Watcher stopped")
		return nil
	},
}

func init() {
	WatchCmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")
	WatchCmd.Flags().StringVar(&cronSchedule, "cron", "", "cron schedule to refresh on instead of a fixed interval")

	root.RootCmd.AddCommand(WatchCmd)
}

func runCron(ctx context.Context, refresh func(ctx context.Context) error) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer func() { _ = s.Shutdown() }()

	_, err = s.NewJob(
		gocron.CronJob(cronSchedule, false),
		gocron.NewTask(func() {
			if err := refresh(ctx); err != nil {
				root.GetLogger().Errorf("Refresh failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	fmt.Printf("Refreshing on cron schedule: %s\n", cronSchedule)
	fmt.Println("Press Ctrl+C to stop")
	s.Start()

	<-ctx.Done()
	fmt.Println("\nShutting down scheduler...")
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
