package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
)

var statusFlags struct {
	policy string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show activation state of a policy",
	Long: `Show the activation history of a policy across the staging and production
networks.

Examples:
  cloudlet status --policy mobile-block
  cloudlet status --policy mobile-block --format json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFlags.policy, "policy", "", "policy name (required)")
	statusCmd.MarkFlagRequired("policy")
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	rec, err := rt.resolvePolicy(statusFlags.policy)
	if err != nil {
		return err
	}

	client, err := rt.apiClient()
	if err != nil {
		return err
	}

	activations, err := client.ListActivations(context.Background(), rec.PolicyID)
	if err != nil {
		return cli.NewCommandError("status", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, activations)
	}

	if len(activations) == 0 {
		fmt.Printf("Policy %s has no activations\n", rec.Name)
		return nil
	}

	rows := [][]string{{"NETWORK", "VERSION", "STATUS", "ACTIVATED BY"}}
	for _, a := range activations {
		rows = append(rows, []string{
			string(a.Network),
			strconv.FormatInt(a.PolicyInfo.Version, 10),
			a.PolicyInfo.Status,
			a.PolicyInfo.ActivatedBy,
		})
	}
	return cli.Table(os.Stdout, rows)
}
