package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/history"
)

var historyFlags struct {
	policy  string
	command string
	limit   int
	since   string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past policy changes made by this tool",
	Long: `Show the local audit log of changes made through this tool.

Each mutating command (setup, create-version, activate, add-rule,
modify-rule) records an entry. The log only covers this machine; it is
not the server-side activation history.

Examples:
  cloudlet history --policy mobile-block
  cloudlet history --command activate --since 2026-08-01
  cloudlet history --limit 10 --format json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyFlags.policy, "policy", "", "filter by policy name")
	historyCmd.Flags().StringVar(&historyFlags.command, "command", "", "filter by command")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 50, "maximum entries to show")
	historyCmd.Flags().StringVar(&historyFlags.since, "since", "", "only entries after this time (RFC 3339 or YYYY-MM-DD)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	if !rt.cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	query := history.Query{
		PolicyName: historyFlags.policy,
		Command:    historyFlags.command,
		Limit:      historyFlags.limit,
	}
	if historyFlags.since != "" {
		since, err := parseSince(historyFlags.since)
		if err != nil {
			return err
		}
		query.Since = since
	}

	storage, err := rt.openHistory()
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer storage.Close()

	entries, err := storage.Find(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries match.")
		return nil
	}

	rows := [][]string{{"TIME", "COMMAND", "POLICY", "VERSION", "RESULT", "DETAIL"}}
	for _, e := range entries {
		result := "ok"
		detail := e.Detail
		if !e.Success {
			result = "failed"
			detail = e.Error
		}
		version := ""
		if e.Version > 0 {
			version = fmt.Sprintf("%d", e.Version)
		}
		rows = append(rows, []string{
			e.Time.Local().Format("2006-01-02 15:04:05"),
			e.Command,
			e.PolicyName,
			version,
			result,
			detail,
		})
	}
	return cli.Table(os.Stdout, rows)
}

// parseSince accepts a full RFC 3339 timestamp or a bare date.
func parseSince(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q: use RFC 3339 or YYYY-MM-DD", value)
}
