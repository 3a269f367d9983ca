package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
)

type MetafieldStore struct {
	client *redis.Client
	prefix string
}

type storedMetafield struct {
	Limits    map[string]int `json:"limits"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewMetafieldStore(conn *Connection, prefix string) *MetafieldStore {
	return &MetafieldStore{
		client: conn.GetClient(),
		prefix: prefix,
	}
}

func (s *MetafieldStore) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, namespace, key)
}

func (s *MetafieldStore) Get(ctx context.Context, namespace, key string) (*settings.Metafield, error) {
	result, err := s.client.Get(ctx, s.key(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainErrors.ErrMetafieldNotFound
		}
		return nil, err
	}

	var stored storedMetafield
	if err := json.Unmarshal(result, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMetafieldValue, err)
	}

	metafield := settings.NewMetafield(namespace, key)
	if stored.Limits != nil {
		metafield.Limits = stored.Limits
	}
	metafield.UpdatedAt = stored.UpdatedAt
	return metafield, nil
}

func (s *MetafieldStore) Save(ctx context.Context, metafield *settings.Metafield) error {
	data, err := json.Marshal(storedMetafield{
		Limits:    metafield.Limits,
		UpdatedAt: metafield.UpdatedAt,
	})
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key(metafield.Namespace, metafield.Key), data, 0).Err()
}

func (s *MetafieldStore) Delete(ctx context.Context, namespace, key string) error {
	deleted, err := s.client.Del(ctx, s.key(namespace, key)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domainErrors.ErrMetafieldNotFound
	}
	return nil
}

func (s *MetafieldStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
