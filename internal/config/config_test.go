package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"server": {"host": "127.0.0.1", "port": 9000},
		"storage": {"backend": "postgres"},
		"database": {"driver": "pgx", "host": "db", "port": 5433, "user": "u", "password": "p", "dbname": "limits", "sslmode": "require"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, DriverPGX, cfg.Database.Driver)
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=limits sslmode=require", cfg.Database.GetDSN())
	assert.Equal(t, "$app:product-limits", cfg.Function.MetafieldNamespace)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
storage:
  backend: redis
redis:
  host: cache
  port: 6380
  db: 2
rate_limit:
  enabled: true
  rps: 5
  burst: 10
function:
  metafield_namespace: custom
  metafield_key: limits
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Address())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "metafield", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, "custom", cfg.Function.MetafieldNamespace)
	assert.Equal(t, "limits", cfg.Function.MetafieldKey)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"backend":    `{"storage": {"backend": "sqlite"}}`,
		"driver":     `{"database": {"driver": "mysql"}}`,
		"metafield":  `{"function": {"metafield_key": ""}}`,
		"rate limit": `{"rate_limit": {"enabled": true, "rps": 0}}`,
		"syntax":     `{"storage": `,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.json", content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
