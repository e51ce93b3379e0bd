package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/cloudlets"
	"edgekit-hq/cloudlet/pkg/history"
)

var activateFlags struct {
	policy  string
	version int64
	network string
}

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate a policy version on a network",
	Long: `Activate a policy version on the staging or production network.

Without --version the latest version is activated. Activation is
asynchronous on the provider side; use "status" to follow progress.

Examples:
  cloudlet activate --policy mobile-block --version 4 --network staging
  cloudlet activate --policy mobile-block --network production`,
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)

	activateCmd.Flags().StringVar(&activateFlags.policy, "policy", "", "policy name (required)")
	activateCmd.Flags().Int64Var(&activateFlags.version, "version", 0, "policy version (default: latest)")
	activateCmd.Flags().StringVar(&activateFlags.network, "network", "", "target network: staging or production (required)")
	activateCmd.MarkFlagRequired("policy")
	activateCmd.MarkFlagRequired("network")
}

func runActivate(cmd *cobra.Command, args []string) error {
	network, ok := cloudlets.ParseNetwork(activateFlags.network)
	if !ok {
		return fmt.Errorf("unknown network %q (expected staging or production)", activateFlags.network)
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	rec, err := rt.resolvePolicy(activateFlags.policy)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := rt.apiClient()
	if err != nil {
		return err
	}

	version, err := rt.resolveVersion(ctx, rec.PolicyID, activateFlags.version)
	if err != nil {
		return cli.NewCommandError("activate", err)
	}

	activations, err := client.Activate(ctx, rec.PolicyID, version, network)

	entry := history.NewEntry("activate")
	entry.PolicyName = rec.Name
	entry.PolicyID = rec.PolicyID
	entry.Version = version
	entry.Network = string(network)
	rt.recordHistory(entry, err)

	if err != nil {
		return cli.NewCommandError("activate", err)
	}

	status := "submitted"
	if len(activations) > 0 && activations[0].PolicyInfo.Status != "" {
		status = activations[0].PolicyInfo.Status
	}
	fmt.Printf("Activation of %s version %d on %s: %s\n", rec.Name, version, network, status)
	return nil
}
