package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	edgercPath    string
	edgercSection string
	verbose       bool
	outputFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "cloudlet",
	Short: "Manage Akamai Request Control cloudlet policies",
	Long: `Cloudlet is a command-line client for the Akamai Cloudlets v2 policy API.

It manages Request Control policies: named, versioned collections of rules
that allow, deny, or serve a branded deny page based on client IP or country.
Policy metadata is cached as local JSON files so every command can address
policies by name instead of remote identifier.

Typical workflow:
  cloudlet setup                      # build the local policy cache
  cloudlet list                       # see what is cached
  cloudlet show --policy NAME         # download a version's rules
  cloudlet create-version --policy NAME --file rules.json
  cloudlet activate --policy NAME --version N --network staging`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "~/.cloudlet/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&edgercPath, "edgerc", "", "path to .edgerc credentials file (default from config)")
	rootCmd.PersistentFlags().StringVar(&edgercSection, "section", "", ".edgerc section (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text, json")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
