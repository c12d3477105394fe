package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// AssetRepository persists the token asset registry.
type AssetRepository struct {
	pool *pgxpool.Pool
}

var _ ports.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates a new repository for asset registry data.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// SaveAsset inserts a new asset; a duplicate ID maps to ErrDuplicate.
func (r *AssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	query := `
		INSERT INTO assets (asset_id, symbol, decimals, is_enabled, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		asset.AssetID,
		asset.Symbol,
		asset.Decimals,
		asset.IsEnabled,
		asset.CreatedAt,
		asset.CreatedBy,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save asset %s: %w", asset.AssetID, err)
	}
	return nil
}

// FindAssetByID retrieves an asset by its ID.
func (r *AssetRepository) FindAssetByID(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error) {
	query := `
		SELECT asset_id, symbol, decimals, is_enabled, created_at, created_by, last_updated_at, last_updated_by
		FROM assets
		WHERE asset_id = $1;
	`
	var asset domain.Asset
	err := r.pool.QueryRow(ctx, query, assetID).Scan(
		&asset.AssetID,
		&asset.Symbol,
		&asset.Decimals,
		&asset.IsEnabled,
		&asset.CreatedAt,
		&asset.CreatedBy,
		&asset.LastUpdatedAt,
		&asset.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset by ID %s: %w", assetID, err)
	}
	return &asset, nil
}

// ListAssets retrieves all registered assets ordered by ID.
func (r *AssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	query := `
		SELECT asset_id, symbol, decimals, is_enabled, created_at, created_by, last_updated_at, last_updated_by
		FROM assets
		ORDER BY asset_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Asset, error) {
		var asset domain.Asset
		err := row.Scan(
			&asset.AssetID,
			&asset.Symbol,
			&asset.Decimals,
			&asset.IsEnabled,
			&asset.CreatedAt,
			&asset.CreatedBy,
			&asset.LastUpdatedAt,
			&asset.LastUpdatedBy,
		)
		return asset, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan assets: %w", err)
	}
	return assets, nil
}
