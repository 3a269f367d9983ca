package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
)

type MetafieldRepository struct {
	db *sql.DB
}

func NewMetafieldRepository(conn *Connection) *MetafieldRepository {
	return &MetafieldRepository{
		db: conn.GetDB(),
	}
}

func (r *MetafieldRepository) Get(ctx context.Context, namespace, key string) (*settings.Metafield, error) {
	query := `
		SELECT value, updated_at
		FROM metafields
		WHERE namespace = $1 AND key = $2
	`

	var value []byte
	metafield := settings.NewMetafield(namespace, key)
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "metafields", query, namespace, key)
	if err := row.Scan(&value, &metafield.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrMetafieldNotFound
		}
		return nil, err
	}

	limits, err := settings.DecodeValue(value)
	if err != nil {
		return nil, err
	}
	metafield.Limits = limits

	return metafield, nil
}

func (r *MetafieldRepository) Save(ctx context.Context, metafield *settings.Metafield) error {
	value, err := metafield.EncodeValue()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO metafields (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err = monitoring.InstrumentExec(ctx, r.db, "UPSERT", "metafields", query,
		metafield.Namespace, metafield.Key, string(value), metafield.UpdatedAt,
	)
	return err
}

func (r *MetafieldRepository) Delete(ctx context.Context, namespace, key string) error {
	query := `DELETE FROM metafields WHERE namespace = $1 AND key = $2`

	result, err := monitoring.InstrumentExec(ctx, r.db, "DELETE", "metafields", query, namespace, key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrMetafieldNotFound
	}

	return nil
}

func (r *MetafieldRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
