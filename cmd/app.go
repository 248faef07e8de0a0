package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/iksnae/doomlearn/internal"
	"github.com/iksnae/doomlearn/internal/gateway"
)

// app bundles what a command needs: config, local state, the graph cache
// and the feed workflow bound to the backend
type app struct {
	cfg   *internal.Config
	state *internal.State
	feed  *internal.Feed
	cache *internal.CacheManager // nil when ephemeral
}

// newBackend builds the backend client; tests swap it out
var newBackend = func(cfg *internal.Config) internal.Backend {
	return gateway.New(cfg.APIURL, gateway.WithTimeout(cfg.Timeout()))
}

// resolveConfigPath returns --config or the default config file location
func resolveConfigPath() (string, internal.DataPaths, error) {
	paths, err := internal.DetectDataPaths()
	if err != nil {
		return "", paths, err
	}
	if configPath != "" {
		return configPath, paths, nil
	}
	return paths.ConfigFile(), paths, nil
}

func loadConfig() (*internal.Config, error) {
	path, paths, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := internal.LoadConfig(path, paths)
	if err != nil {
		return nil, err
	}

	if storageKind != "" {
		cfg.Storage = storageKind
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func loadApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var (
		persister internal.Persister
		cache     *internal.CacheManager
	)
	if ephemeral {
		internal.LogDebug("Ephemeral run, nothing will be written")
		persister = internal.NewMemoryStore(internal.EmptyPersistedState())
	} else {
		persister, err = internal.OpenPersister(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open local storage: %w", err)
		}
		internal.LogDebug("Using %s storage in %s", cfg.Storage, cfg.DataDir)
		cache = internal.NewCacheManager(filepath.Join(cfg.DataDir, "cache"))
	}

	state := internal.NewState(persister)
	return &app{
		cfg:   cfg,
		state: state,
		feed:  internal.NewFeed(newBackend(cfg), state),
		cache: cache,
	}, nil
}

func (a *app) Close() {
	if err := a.state.Close(); err != nil {
		internal.LogWarn("Failed to close storage: %v", err)
	}
}
