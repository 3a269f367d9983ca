package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yuzvak/product-limits/internal/config"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
)

type Connection struct {
	client *redis.Client
}

func NewConnection(cfg config.RedisConfig) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Connection{
		client: monitoring.InstrumentRedisClient(client),
	}, nil
}

func NewConnectionFromClient(client *redis.Client) *Connection {
	return &Connection{client: client}
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) GetClient() *redis.Client {
	return c.client
}
