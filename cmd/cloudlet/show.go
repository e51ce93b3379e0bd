package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
)

var showFlags struct {
	policy    string
	version   int64
	output    string
	onlyRules bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Download a policy version",
	Long: `Download a policy version document, rules included.

The policy is addressed by its cached name. Without --version the latest
version is fetched. Output goes to stdout or, with --output, to a file that
can later be edited and resubmitted with create-version.

Examples:
  cloudlet show --policy mobile-block
  cloudlet show --policy mobile-block --version 3 --output v3.json
  cloudlet show --policy mobile-block --only-rules`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFlags.policy, "policy", "", "policy name (required)")
	showCmd.Flags().Int64Var(&showFlags.version, "version", 0, "policy version (default: latest)")
	showCmd.Flags().StringVarP(&showFlags.output, "output", "o", "", "write to file instead of stdout")
	showCmd.Flags().BoolVar(&showFlags.onlyRules, "only-rules", false, "print only the matchRules array")
	showCmd.MarkFlagRequired("policy")
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	rec, err := rt.resolvePolicy(showFlags.policy)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := rt.apiClient()
	if err != nil {
		return err
	}

	version, err := rt.resolveVersion(ctx, rec.PolicyID, showFlags.version)
	if err != nil {
		return cli.NewCommandError("show", err)
	}

	// Raw fetch: the downloaded document may be edited and resubmitted, so
	// fields this tool does not model have to round-trip.
	doc, err := client.GetVersionDocument(ctx, rec.PolicyID, version)
	if err != nil {
		return cli.NewCommandError("show", err)
	}

	var out any = doc
	if showFlags.onlyRules {
		out = doc["matchRules"]
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if showFlags.output != "" {
		if err := os.WriteFile(showFlags.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", showFlags.output, err)
		}
		fmt.Printf("Wrote %s version %d to %s\n", rec.Name, version, showFlags.output)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
