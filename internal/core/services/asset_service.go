package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/utils/fixedpoint"
)

// AssetService manages the registry of supported token assets and answers
// precision lookups for the accounting core.
type AssetService struct {
	assetRepo ports.AssetRepository
}

// NewAssetService creates a new AssetService.
func NewAssetService(assetRepo ports.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

// RegisterAsset enrolls a token asset with its issuer-defined precision.
func (s *AssetService) RegisterAsset(ctx context.Context, assetID domain.AssetID, symbol string, decimals int32, creatorUserID string) (*domain.Asset, error) {
	if assetID.IsNative() {
		return nil, fmt.Errorf("%w: asset ID %q is reserved for the native asset", apperrors.ErrValidation, assetID)
	}
	if assetID == "" || symbol == "" {
		return nil, fmt.Errorf("%w: asset ID and symbol are required", apperrors.ErrValidation)
	}
	if decimals < 0 || decimals > fixedpoint.MaxAssetDecimals {
		return nil, fmt.Errorf("%w: decimals must be between 0 and %d", apperrors.ErrValidation, fixedpoint.MaxAssetDecimals)
	}

	now := time.Now().UTC()
	asset := domain.Asset{
		AssetID:   assetID,
		Symbol:    symbol,
		Decimals:  decimals,
		IsEnabled: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: asset %s is already registered", apperrors.ErrDuplicate, assetID)
		}
		return nil, fmt.Errorf("failed to register asset %s: %w", assetID, err)
	}

	return &asset, nil
}

// GetAsset retrieves a registered asset by ID.
func (s *AssetService) GetAsset(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	return asset, nil
}

// ListAssets returns all registered token assets.
func (s *AssetService) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	assets, err := s.assetRepo.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	if assets == nil {
		return []domain.Asset{}, nil
	}
	return assets, nil
}

// NativeDecimalsOf resolves an asset's native fixed-point precision. The
// native sentinel has a fixed precision; token precisions come from the
// registry and deposits of disabled assets are refused.
func (s *AssetService) NativeDecimalsOf(ctx context.Context, assetID domain.AssetID) (int32, error) {
	if assetID.IsNative() {
		return domain.NativeAssetDecimals, nil
	}

	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve precision for asset %s: %w", assetID, err)
	}
	if !asset.IsEnabled {
		return 0, fmt.Errorf("%w: asset %s is disabled", apperrors.ErrValidation, assetID)
	}
	return asset.Decimals, nil
}
