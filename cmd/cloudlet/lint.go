package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/rules"
)

var lintFlags struct {
	watch bool
}

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Check a rule document for problems",
	Long: `Check a rule document file for problems before submitting it.

Accepts either a single rule document or a full policy version download
(a document with a matchRules array). With --watch the file is re-checked
every time it changes, which pairs well with editing in another window.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintFlags.watch, "watch", false, "re-check the file on every change")
}

func runLint(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !lintFlags.watch {
		return lintFile(path)
	}

	if err := lintFile(path); err != nil {
		// In watch mode problems are reported, not fatal.
		fmt.Println(err)
	}

	watcher := rules.NewFileWatcher(path, slog.Default())

	ctx := cli.SetupSignalHandler()
	fmt.Printf("Watching %s (ctrl-c to stop)\n", path)
	return watcher.Watch(ctx, func() {
		if err := lintFile(path); err != nil {
			fmt.Println(err)
		}
	})
}

func lintFile(path string) error {
	doc, err := rules.Load(path)
	if err != nil {
		return err
	}
	if err := rules.ValidateDocument(doc); err != nil {
		return err
	}
	slog.Debug("lint passed", "file", path)
	fmt.Printf("%s: ok\n", path)
	return nil
}
