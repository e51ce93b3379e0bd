package main

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/cloudlets"
	"edgekit-hq/cloudlet/pkg/history"
)

var setupFlags struct {
	schedule       string
	includeDeleted bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Discover account policies and build the local cache",
	Long: `Discover every Request Control policy the credentials can see and rewrite
the local cache: one JSON file per policy plus the aggregate policies.json
index. Policies that disappeared remotely are removed from the cache.

Every other command resolves policy names through this cache, so setup must
run before the first name-addressed operation and after policies are created
or renamed elsewhere.

Examples:
  # One-shot cache refresh
  cloudlet setup

  # Keep running and refresh hourly until interrupted
  cloudlet setup --schedule "@hourly"

  # Refresh every weekday morning
  cloudlet setup --schedule "0 7 * * 1-5"`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupFlags.schedule, "schedule", "", "cron schedule for periodic refresh (runs until interrupted)")
	setupCmd.Flags().BoolVar(&setupFlags.includeDeleted, "include-deleted", false, "include deleted policies")
}

func runSetup(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	if setupFlags.schedule == "" {
		count, err := refreshCache(context.Background(), rt)
		if err != nil {
			return cli.NewCommandError("setup", err)
		}
		fmt.Printf("Cached %d policies to %s\n", count, rt.store.Dir())
		return nil
	}

	if _, err := cron.ParseStandard(setupFlags.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", setupFlags.schedule, err)
	}

	ctx := cli.SetupSignalHandler()

	// First refresh happens immediately; the schedule covers repeats.
	count, err := refreshCache(ctx, rt)
	if err != nil {
		return cli.NewCommandError("setup", err)
	}
	fmt.Printf("Cached %d policies to %s\n", count, rt.store.Dir())

	scheduler := cron.New()
	_, err = scheduler.AddFunc(setupFlags.schedule, func() {
		if n, err := refreshCache(ctx, rt); err != nil {
			rt.logger.Error("scheduled cache refresh failed", "error", err)
		} else {
			rt.logger.Info("scheduled cache refresh done", "policies", n)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	scheduler.Start()
	rt.logger.Info("refresh scheduler started", "schedule", setupFlags.schedule)

	<-ctx.Done()
	<-scheduler.Stop().Done()
	rt.logger.Info("refresh scheduler stopped")
	return nil
}

// refreshCache pulls the policy list and rewrites the local cache, recording
// the outcome in the history log.
func refreshCache(ctx context.Context, rt *cliRuntime) (int, error) {
	client, err := rt.apiClient()
	if err != nil {
		return 0, err
	}

	opts := cloudlets.ListPoliciesOptions{
		CloudletID:     -1,
		GroupID:        rt.cfg.Cloudlet.GroupID,
		IncludeDeleted: setupFlags.includeDeleted,
	}
	if id, ok := cloudlets.CloudletID(rt.cfg.Cloudlet.Code); ok {
		opts.CloudletID = id
	}

	policies, listErr := client.ListPolicies(ctx, opts)

	entry := history.NewEntry("setup")
	if listErr != nil {
		rt.recordHistory(entry, listErr)
		return 0, listErr
	}

	// The cloudletId filter is best effort; the code tag is authoritative.
	filtered := policies[:0]
	for _, p := range policies {
		if p.CloudletCode == rt.cfg.Cloudlet.Code {
			filtered = append(filtered, p)
		}
	}

	records, err := rt.store.Refresh(filtered)
	if err != nil {
		rt.recordHistory(entry, err)
		return 0, err
	}

	entry.Detail = fmt.Sprintf("cached %d policies", len(records))
	rt.recordHistory(entry, nil)
	return len(records), nil
}
