// Package logging provides structured logging for the cloudlet CLI on top of
// log/slog. Logs go to stderr so command output on stdout stays pipeable.
package logging
