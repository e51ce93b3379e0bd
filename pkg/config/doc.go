// Package config provides configuration loading and validation for the
// cloudlet CLI.
//
// Configuration is read from a YAML file, merged with defaults, overridden by
// CLOUDLET_* environment variables, and validated before use. The zero
// configuration (no file at all) is valid: every field has a usable default
// so the CLI works with nothing but an ~/.edgerc credentials file.
package config
