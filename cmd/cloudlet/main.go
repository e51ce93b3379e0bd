// Cloudlet is a command-line client for the Akamai Cloudlets v2 policy API,
// managing Request Control policies from the terminal.
//
// It caches policy metadata as local JSON files so policies can be addressed
// by name, and drives the remote version, activation, and rule operations:
//
//	# Discover account policies and build the local cache
//	cloudlet setup
//
//	# List cached policies
//	cloudlet list
//
//	# Download a policy version
//	cloudlet show --policy mobile-block --output rules.json
//
//	# Create and activate a new version
//	cloudlet create-version --policy mobile-block --file rules.json
//	cloudlet activate --policy mobile-block --version 4 --network staging
//
//	# Add a rule from the built-in template
//	cloudlet add-rule --policy mobile-block --action deny \
//	    --type clientip --value 192.0.2.0/24 --name block-office-range
//
// Credentials come from an EdgeGrid ~/.edgerc file.
package main

func main() {
	Execute()
}
