// Package history keeps a local audit log of mutating cloudlet commands:
// cache refreshes, version creation, activations, and rule changes.
//
// Records are append-only and stored through a Storage interface with a
// SQLite backend for real use and an in-memory backend for tests. The
// history command queries the log; nothing in this package talks to the
// remote API.
package history
