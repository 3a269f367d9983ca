package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
)

func TestMetafieldStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMetafieldStore()

	_, err := store.Get(ctx, settings.DefaultNamespace, settings.DefaultKey)
	require.ErrorIs(t, err, errors.ErrMetafieldNotFound)

	m := settings.NewMetafield(settings.DefaultNamespace, settings.DefaultKey)
	require.NoError(t, m.SetLimit("v", 3))
	require.NoError(t, store.Save(ctx, m))

	require.NoError(t, m.SetLimit("v", 10))

	loaded, err := store.Get(ctx, settings.DefaultNamespace, settings.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Limits["v"])

	loaded.Limits["v"] = 50
	again, err := store.Get(ctx, settings.DefaultNamespace, settings.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Limits["v"])
}

func TestMetafieldStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMetafieldStore()

	require.ErrorIs(t, store.Delete(ctx, "ns", "key"), errors.ErrMetafieldNotFound)

	require.NoError(t, store.Save(ctx, settings.NewMetafield("ns", "key")))
	require.NoError(t, store.Delete(ctx, "ns", "key"))

	_, err := store.Get(ctx, "ns", "key")
	assert.ErrorIs(t, err, errors.ErrMetafieldNotFound)
	assert.NoError(t, store.Ping(ctx))
}
