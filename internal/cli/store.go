package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/yuzvak/product-limits/internal/application/ports"
	"github.com/yuzvak/product-limits/internal/config"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
	"github.com/yuzvak/product-limits/internal/infrastructure/persistence/memory"
	"github.com/yuzvak/product-limits/internal/infrastructure/persistence/postgres"
	"github.com/yuzvak/product-limits/internal/infrastructure/persistence/redis"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.MetafieldStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		log.Warn("Using in-memory metafield store, limits are lost on exit")
		return memory.NewMetafieldStore(), func() {}, nil

	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}

		if err := postgres.RunMigrations(db.GetDB(), cfg.Database.MigrationsPath, log); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		collectCtx, stopCollecting := context.WithCancel(ctx)
		monitoring.NewDBMetricsCollector(db.GetDB()).StartCollecting(collectCtx, 30*time.Second)

		log.Info("Connected to postgres", "driver", cfg.Database.Driver, "host", cfg.Database.Host)
		return postgres.NewMetafieldRepository(db), func() {
			stopCollecting()
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", "error", err)
			}
		}, nil

	case config.StorageRedis:
		conn, err := redis.NewConnection(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}

		log.Info("Connected to redis", "address", cfg.Redis.Address())
		return redis.NewMetafieldStore(conn, cfg.Redis.KeyPrefix), func() {
			if err := conn.Close(); err != nil {
				log.Error("Failed to close redis client", "error", err)
			}
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
