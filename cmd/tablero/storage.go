package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hylla/tablero/internal/adapters/source/local"
	"github.com/hylla/tablero/internal/adapters/source/remote"
	"github.com/hylla/tablero/internal/adapters/storage/memory"
	"github.com/hylla/tablero/internal/adapters/storage/redisstore"
	"github.com/hylla/tablero/internal/adapters/storage/sqlite"
	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/config"
	"github.com/hylla/tablero/internal/seed"
)

// storage is an opened repository plus its lifecycle hooks.
type storage struct {
	repo  app.Repository
	ping  func(context.Context) error
	close func() error
}

// openStorage opens the repository backend named by kind.
func (rt *cli) openStorage(ctx context.Context, kind config.Storage) (storage, error) {
	cfg := rt.cfg
	switch kind {
	case config.StorageMemory:
		rt.logger.Debug("using in-memory repository")
		return storage{repo: memory.New(), close: func() error { return nil }}, nil
	case config.StorageSQLite:
		rt.logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
		repo, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			rt.logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
			return storage{}, fmt.Errorf("open sqlite repository: %w", err)
		}
		rt.logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")
		return storage{repo: repo, ping: repo.Ping, close: repo.Close}, nil
	case config.StorageRedis:
		rt.logger.Info("connecting to redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		repo, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			rt.logger.Error("redis connect failed", "addr", cfg.Redis.Addr, "err", err)
			return storage{}, fmt.Errorf("open redis repository: %w", err)
		}
		return storage{repo: repo, ping: repo.Ping, close: repo.Close}, nil
	default:
		return storage{}, fmt.Errorf("unknown storage %q", kind)
	}
}

// seedFile picks the seed source: an explicit path, then seed.path, then seed.yaml beside the
// config. An empty result selects the built-in records.
func (rt *cli) seedFile(override string) string {
	for _, path := range []string{override, rt.cfg.Seed.Path} {
		if strings.TrimSpace(path) != "" {
			return path
		}
	}
	if _, err := os.Stat(rt.paths.SeedPath); err == nil {
		return rt.paths.SeedPath
	}
	return ""
}

// seedStorage loads the configured seed into every empty table of repo.
func (rt *cli) seedStorage(ctx context.Context, repo app.Repository, path string) (int, error) {
	data, err := seed.Load(path)
	if err != nil {
		return 0, err
	}
	n, err := seed.Apply(ctx, repo, data)
	if err != nil {
		return n, fmt.Errorf("apply seed: %w", err)
	}
	rt.logger.Debug("seed applied", "path", path, "inserted", n)
	return n, nil
}

// openStore builds the record store for the configured mode. The returned func releases storage.
func (rt *cli) openStore(ctx context.Context) (*app.Store, func(), error) {
	cfg := rt.cfg
	storeCfg := app.StoreConfig{Logger: rt.logger}

	if cfg.Mode == config.ModeRemote {
		client, err := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.RequestTimeout())
		if err != nil {
			return nil, nil, fmt.Errorf("remote client: %w", err)
		}
		rt.logger.Info("using remote records API", "base_url", client.BaseURL(), "items", cfg.Remote.Items)
		store, err := app.NewStore(remote.Sources(client, cfg.Remote.Items), storeCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	st, err := rt.openStorage(ctx, cfg.Local.Storage)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := st.close(); err != nil {
			rt.logger.Warn("storage close failed", "storage", cfg.Local.Storage, "err", err)
		}
	}
	if _, err := rt.seedStorage(ctx, st.repo, rt.seedFile("")); err != nil {
		release()
		return nil, nil, err
	}

	list, create, update, del := cfg.Local.Latencies()
	store, err := app.NewStore(local.Sources(st.repo, local.Latency{
		List:   list,
		Create: create,
		Update: update,
		Delete: del,
	}), storeCfg)
	if err != nil {
		release()
		return nil, nil, err
	}
	return store, release, nil
}
