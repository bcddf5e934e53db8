package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/yukikurage/join-board/internal/config"
	"github.com/yukikurage/join-board/internal/database"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/logger"
)

// OpenStore connects the key-value backend selected by cfg.StorageDriver.
// The returned close function releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch {
	case cfg.StorageDriver == config.DriverRemote:
		log.Infow("using remote storage", "url", cfg.StorageURL)
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		return kvstore.NewRemoteStore(cfg.StorageURL, cfg.StorageToken, client), noop, nil

	case database.IsSQLDriver(cfg.StorageDriver):
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		log.Infow("using SQL storage", "driver", cfg.StorageDriver)
		return kvstore.NewGormStore(db), sqlDB.Close, nil

	case cfg.StorageDriver == config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("using redis storage", "addr", cfg.RedisAddr())
		return kvstore.NewRedisStore(client), client.Close, nil

	case cfg.StorageDriver == config.DriverMemory:
		log.Warnw("using in-memory storage, data is lost on restart")
		return kvstore.NewMemoryStore(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
