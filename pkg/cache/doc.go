// Package cache persists policy metadata as JSON files so repeated commands
// can resolve policy names to remote identifiers without hitting the API.
//
// The layout is one <name>.json file per policy plus an aggregate
// policies.json index, all inside a single cache directory. The setup command
// rewrites the whole cache; every other command only reads it. A policy must
// be present in the cache before any operation referencing it by name can
// succeed.
package cache
