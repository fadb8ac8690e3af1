// Package bootstrap wires configuration to concrete runtime dependencies:
// the persistence backend and the optional Redis client.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"artboard/internal/cache"
	"artboard/internal/config"
	"artboard/internal/database"
	"artboard/internal/store"

	"github.com/redis/go-redis/v9"
)

// Options control runtime initialization behavior.
type Options struct {
	// InitRedis connects the shared Redis client. The client may still come
	// back nil when Redis is unreachable; callers must tolerate that.
	InitRedis bool
}

// InitRuntime opens the configured store backend and, when requested, Redis.
func InitRuntime(cfg *config.Config, opts Options) (store.Store, *redis.Client, error) {
	st, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("store initialization failed: %w", err)
	}

	var rdb *redis.Client
	if opts.InitRedis {
		cache.InitRedis(cfg.RedisURL)
		rdb = cache.GetClient()
	}

	return st, rdb, nil
}

// OpenStore opens the backend selected by STORE_BACKEND, wrapped with
// operation metrics.
func OpenStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendDocument:
		if dir := filepath.Dir(cfg.DocumentPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create document directory: %w", err)
			}
		}
		ds, err := store.OpenDocumentStore(cfg.DocumentPath)
		if err != nil {
			return nil, err
		}
		return store.Instrument(ds, store.BackendDocument), nil

	case config.BackendRelational:
		if cfg.DBDriver == config.DriverSQLite {
			if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return store.Instrument(store.NewRelationalStore(db), store.BackendRelational), nil

	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
}
