package memory

import (
	"context"
	"sync"

	"github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
)

// MetafieldStore keeps metafields in process memory. Values are cloned on the
// way in and out so callers never share maps with the store.
type MetafieldStore struct {
	mu         sync.RWMutex
	metafields map[string]*settings.Metafield
}

func NewMetafieldStore() *MetafieldStore {
	return &MetafieldStore{
		metafields: make(map[string]*settings.Metafield),
	}
}

func storeKey(namespace, key string) string {
	return namespace + "\x00" + key
}

func (s *MetafieldStore) Get(ctx context.Context, namespace, key string) (*settings.Metafield, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metafield, ok := s.metafields[storeKey(namespace, key)]
	if !ok {
		return nil, errors.ErrMetafieldNotFound
	}
	return metafield.Clone(), nil
}

func (s *MetafieldStore) Save(ctx context.Context, metafield *settings.Metafield) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metafields[storeKey(metafield.Namespace, metafield.Key)] = metafield.Clone()
	return nil
}

func (s *MetafieldStore) Delete(ctx context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storeKey(namespace, key)
	if _, ok := s.metafields[k]; !ok {
		return errors.ErrMetafieldNotFound
	}
	delete(s.metafields, k)
	return nil
}

func (s *MetafieldStore) Ping(ctx context.Context) error {
	return nil
}
