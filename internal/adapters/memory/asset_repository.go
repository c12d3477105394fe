package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
)

// AssetRepository is an in-memory token asset registry.
type AssetRepository struct {
	mu     sync.RWMutex
	assets map[domain.AssetID]domain.Asset
}

var _ ports.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates an empty registry.
func NewAssetRepository() *AssetRepository {
	return &AssetRepository{assets: make(map[domain.AssetID]domain.Asset)}
}

// SaveAsset stores a new asset; re-registration fails with ErrDuplicate.
func (r *AssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.assets[asset.AssetID]; exists {
		return apperrors.ErrDuplicate
	}
	r.assets[asset.AssetID] = asset
	return nil
}

// FindAssetByID retrieves an asset, ErrNotFound when absent.
func (r *AssetRepository) FindAssetByID(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[assetID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &asset, nil
}

// ListAssets returns all registered assets ordered by ID.
func (r *AssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assets := make([]domain.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetID < assets[j].AssetID })
	return assets, nil
}
