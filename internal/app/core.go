package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/dashboard"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/redis"
	"github.com/MrSnakeDoc/startpage/internal/secret"
	"github.com/MrSnakeDoc/startpage/internal/storage"
	"github.com/MrSnakeDoc/startpage/internal/store"
	"github.com/MrSnakeDoc/startpage/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/MrSnakeDoc/startpage/internal/store/sqlite"
)

// Core is the part of the application shared by the server and the CLI
// commands: the local store and the hydrated dashboard.
type Core struct {
	Config    *config.Config
	Logger    logger.Logger
	Store     store.KV
	Dashboard *dashboard.Service
}

// Open connects the local store and hydrates the dashboard from it.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	kv, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc := dashboard.New(dashboard.Options{
		Store:  kv,
		Sealer: secret.NewSealer(cfg.Passphrase, cfg.ScryptWorkFactor),
		Logger: log,
		Storage: storage.Options{
			Logger:     log,
			HTTPClient: &http.Client{Timeout: cfg.RemoteTimeout},
		},
		Seed: dashboard.Seed{File: cfg.SeedFile, URL: cfg.SeedURL},
	})
	if err := svc.Hydrate(ctx); err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("hydrate dashboard: %w", err)
	}

	return &Core{Config: cfg, Logger: log, Store: kv, Dashboard: svc}, nil
}

// Close releases the local store.
func (c *Core) Close() error {
	return c.Store.Close()
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, error) {
	switch cfg.StoreType {
	case config.StoreMemory:
		log.Warn("using the in-memory store, edits are lost on restart")
		return memory.New(), nil

	case config.StoreSQLite:
		log.Info("opening sqlite store", logger.String("path", cfg.SQLitePath))
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return kv, nil

	case config.StoreRedis:
		log.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		client, err := redis.Connect(ctx, redis.Options{
			Addr:          cfg.RedisAddr,
			Username:      cfg.RedisUser,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
			PoolSize:      cfg.RedisPoolSize,
			IOTimeout:     cfg.RedisIOTimeout,
			WaitFor:       cfg.RedisConnectTimeout,
			FirstRetry:    cfg.RedisRetryInterval,
			MaxRetry:      cfg.RedisMaxWait,
			QuietAttempts: cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.NewStore(client, cfg.RedisKeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}
}
