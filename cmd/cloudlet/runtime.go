package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"edgekit-hq/cloudlet/pkg/cache"
	"edgekit-hq/cloudlet/pkg/cli"
	"edgekit-hq/cloudlet/pkg/cloudlets"
	"edgekit-hq/cloudlet/pkg/config"
	"edgekit-hq/cloudlet/pkg/history"
	"edgekit-hq/cloudlet/pkg/telemetry/logging"
)

// cliRuntime bundles the collaborators every command needs: configuration,
// logger, metrics, the local cache store, and (lazily) the API client.
type cliRuntime struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *cloudlets.Metrics
	store   *cache.Store

	client *cloudlets.Client
}

// newRuntime loads configuration, applies global flag overrides, and wires
// logging, metrics, and the cache store. The API client is created on first
// use so cache-only commands work without credentials.
func newRuntime() (*cliRuntime, error) {
	cfgPath := config.ExpandPath(cfgFile)
	cfg, err := config.LoadConfigWithEnvOverrides(cfgPath)
	if err != nil {
		return nil, cli.NewConfigError(cfgPath, err)
	}

	if edgercPath != "" {
		cfg.Edge.EdgercPath = config.ExpandPath(edgercPath)
	}
	if edgercSection != "" {
		cfg.Edge.Section = edgercSection
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	rt := &cliRuntime{
		cfg:     cfg,
		logger:  logger,
		metrics: cloudlets.NewMetrics(nil),
	}
	rt.store = cache.NewStore(config.ExpandPath(cfg.Cache.Dir), logger)
	return rt, nil
}

// apiClient returns the lazily created API client. CLOUDLET_API_URL
// overrides the endpoint with an unsigned client, which the tests use to
// point commands at a mock server.
func (rt *cliRuntime) apiClient() (*cloudlets.Client, error) {
	if rt.client != nil {
		return rt.client, nil
	}

	opts := []cloudlets.Option{
		cloudlets.WithLogger(rt.logger),
		cloudlets.WithMetrics(rt.metrics),
	}

	var (
		client *cloudlets.Client
		err    error
	)
	if override := os.Getenv("CLOUDLET_API_URL"); override != "" {
		client, err = cloudlets.New(override, opts...)
	} else {
		client, err = cloudlets.NewFromEdgerc(
			config.ExpandPath(rt.cfg.Edge.EdgercPath),
			rt.cfg.Edge.Section,
			rt.cfg.Edge.Timeout,
			opts...,
		)
	}
	if err != nil {
		return nil, err
	}

	rt.client = client
	return client, nil
}

// resolvePolicy maps a policy name to its cached record. Policies absent from
// the cache fail here; setup must have run first.
func (rt *cliRuntime) resolvePolicy(name string) (cache.Record, error) {
	if name == "" {
		return cache.Record{}, fmt.Errorf("--policy is required")
	}

	registry, err := rt.store.Load()
	if err != nil {
		return cache.Record{}, err
	}
	return registry.Get(name)
}

// resolveVersion returns the explicit version when given, the latest remote
// version otherwise.
func (rt *cliRuntime) resolveVersion(ctx context.Context, policyID, flagVersion int64) (int64, error) {
	if flagVersion > 0 {
		return flagVersion, nil
	}

	client, err := rt.apiClient()
	if err != nil {
		return 0, err
	}
	latest, err := client.LatestVersion(ctx, policyID)
	if err != nil {
		return 0, err
	}
	return latest.Version, nil
}

// recordHistory appends an audit entry for a mutating command. runErr marks
// the entry as failed. History failures are logged, never fatal: the remote
// operation already happened.
func (rt *cliRuntime) recordHistory(entry *history.Entry, runErr error) {
	if !rt.cfg.History.Enabled {
		return
	}

	if runErr != nil {
		entry.Success = false
		entry.Error = runErr.Error()
	}

	storage, err := rt.openHistory()
	if err != nil {
		rt.logger.Warn("failed to open history storage", "error", err)
		return
	}
	defer storage.Close()

	if err := storage.Append(context.Background(), entry); err != nil {
		rt.logger.Warn("failed to record history entry", "error", err)
	}
}

// openHistory creates the configured history backend.
func (rt *cliRuntime) openHistory() (history.Storage, error) {
	switch rt.cfg.History.Backend {
	case "memory":
		return history.NewMemoryStorage(), nil
	default:
		path := config.ExpandPath(rt.cfg.History.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		return history.NewSQLiteStorage(&history.SQLiteConfig{Path: path})
	}
}

// finish emits the per-command API call summary in verbose mode.
func (rt *cliRuntime) finish() {
	if verbose {
		rt.metrics.Report(os.Stderr)
	}
}
