package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

// Set PRODUCT_LIMITS_TEST_DSN to a disposable database to run these.
func openTestDB(t *testing.T) *Connection {
	t.Helper()

	dsn := os.Getenv("PRODUCT_LIMITS_TEST_DSN")
	if dsn == "" {
		t.Skip("PRODUCT_LIMITS_TEST_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO")
	require.NoError(t, RunMigrations(db, filepath.Join("..", "..", "..", "..", "migrations"), log))

	return NewConnectionFromDB(db)
}

func TestMetafieldRepositoryRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	repo := NewMetafieldRepository(conn)
	ctx := context.Background()
	namespace := "test-" + time.Now().Format("150405.000000")

	_, err := repo.Get(ctx, namespace, settings.DefaultKey)
	require.ErrorIs(t, err, domainErrors.ErrMetafieldNotFound)

	m := settings.NewMetafield(namespace, settings.DefaultKey)
	require.NoError(t, m.SetLimit("gid://shopify/ProductVariant/1", 3))
	m.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, m))

	require.NoError(t, m.SetLimit("gid://shopify/ProductVariant/2", 0))
	require.NoError(t, repo.Save(ctx, m))

	loaded, err := repo.Get(ctx, namespace, settings.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, m.Limits, loaded.Limits)
	assert.True(t, m.UpdatedAt.Equal(loaded.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, namespace, settings.DefaultKey))
	assert.ErrorIs(t, repo.Delete(ctx, namespace, settings.DefaultKey), domainErrors.ErrMetafieldNotFound)
	assert.NoError(t, repo.Ping(ctx))
}
