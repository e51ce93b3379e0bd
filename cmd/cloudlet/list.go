package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
)

var listFlags struct {
	remote bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached policies",
	Long: `List the policies in the local cache with their remote identifiers.

The listing is served entirely from disk; pass --remote to refresh the cache
from the API first.

Examples:
  cloudlet list
  cloudlet list --remote
  cloudlet list --format json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listFlags.remote, "remote", false, "refresh the cache from the API before listing")
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	if listFlags.remote {
		if _, err := refreshCache(context.Background(), rt); err != nil {
			return cli.NewCommandError("list", err)
		}
	}

	registry, err := rt.store.Load()
	if err != nil {
		return cli.NewCommandError("list", err)
	}
	records := registry.All()

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No cached policies. Run \"cloudlet setup\" first.")
		return nil
	}

	rows := [][]string{{"NAME", "POLICY ID", "GROUP", "CLOUDLET", "CACHED"}}
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Name,
			strconv.FormatInt(rec.PolicyID, 10),
			strconv.FormatInt(rec.GroupID, 10),
			rec.CloudletCode,
			rec.CachedAt.Format("2006-01-02 15:04"),
		})
	}
	return cli.Table(os.Stdout, rows)
}
