package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/cloudlets"
	"edgekit-hq/cloudlet/pkg/history"
	"edgekit-hq/cloudlet/pkg/rules"
)

var createVersionFlags struct {
	policy       string
	file         string
	cloneVersion int64
	notes        string
}

var createVersionCmd = &cobra.Command{
	Use:   "create-version",
	Short: "Create a new policy version",
	Long: `Create a new version of a policy.

The version body comes from one of three sources:
  --file           a rules document, typically downloaded with "show" and
                   edited; server-assigned fields are stripped automatically
  --clone-version  an existing version to copy rules from
  (neither)        an empty version

Examples:
  cloudlet create-version --policy mobile-block --file rules.json
  cloudlet create-version --policy mobile-block --clone-version 3 --notes "copy of v3"
  cloudlet create-version --policy mobile-block`,
	RunE: runCreateVersion,
}

func init() {
	rootCmd.AddCommand(createVersionCmd)

	createVersionCmd.Flags().StringVar(&createVersionFlags.policy, "policy", "", "policy name (required)")
	createVersionCmd.Flags().StringVar(&createVersionFlags.file, "file", "", "rules document to submit")
	createVersionCmd.Flags().Int64Var(&createVersionFlags.cloneVersion, "clone-version", 0, "existing version to clone")
	createVersionCmd.Flags().StringVar(&createVersionFlags.notes, "notes", "", "version description")
	createVersionCmd.MarkFlagRequired("policy")
}

func runCreateVersion(cmd *cobra.Command, args []string) error {
	if createVersionFlags.file != "" && createVersionFlags.cloneVersion > 0 {
		return fmt.Errorf("--file and --clone-version are mutually exclusive")
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.finish()

	rec, err := rt.resolvePolicy(createVersionFlags.policy)
	if err != nil {
		return err
	}

	var body any
	if createVersionFlags.file != "" {
		doc, err := rules.Load(createVersionFlags.file)
		if err != nil {
			return err
		}
		rules.StripVersion(doc)
		if createVersionFlags.notes != "" {
			doc["description"] = createVersionFlags.notes
		}
		if err := rules.ValidateDocument(doc); err != nil {
			return err
		}
		body = doc
	} else {
		body = &cloudlets.CreateVersionRequest{Description: createVersionFlags.notes}
	}

	client, err := rt.apiClient()
	if err != nil {
		return err
	}

	created, err := client.CreateVersion(context.Background(), rec.PolicyID, body, createVersionFlags.cloneVersion)

	entry := history.NewEntry("create-version")
	entry.PolicyName = rec.Name
	entry.PolicyID = rec.PolicyID
	if created != nil {
		entry.Version = created.Version
		entry.Detail = created.Description
	}
	rt.recordHistory(entry, err)

	if err != nil {
		return cli.NewCommandError("create-version", err)
	}

	fmt.Printf("Created version %d of policy %s\n", created.Version, rec.Name)
	return nil
}
