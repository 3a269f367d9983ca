package ports

import (
	"context"

	"github.com/yuzvak/product-limits/internal/domain/settings"
)

// MetafieldStore persists the limits metafield. Get returns
// errors.ErrMetafieldNotFound when nothing was saved under namespace and key.
type MetafieldStore interface {
	Get(ctx context.Context, namespace, key string) (*settings.Metafield, error)
	Save(ctx context.Context, metafield *settings.Metafield) error
	Delete(ctx context.Context, namespace, key string) error
	Ping(ctx context.Context) error
}
