// Package cli provides shared helpers for cloudlet commands: output
// formatting, typed command errors, and signal-aware contexts for the
// long-running watch and schedule modes.
package cli
