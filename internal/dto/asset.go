package dto

import (
	"time"

	"github.com/custodix/bankcore/internal/core/domain"
)

// RegisterAssetRequest defines the data needed to register a token asset.
type RegisterAssetRequest struct {
	AssetID  string `json:"assetID" binding:"required,assetid"`
	Symbol   string `json:"symbol" binding:"required"`
	Decimals int32  `json:"decimals" binding:"min=0,max=38"`
}

// AssetResponse defines the data returned for a registered asset.
type AssetResponse struct {
	AssetID       string    `json:"assetID"`
	Symbol        string    `json:"symbol"`
	Decimals      int32     `json:"decimals"`
	IsEnabled     bool      `json:"isEnabled"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToAssetResponse converts a domain.Asset to AssetResponse DTO
func ToAssetResponse(asset *domain.Asset) AssetResponse {
	return AssetResponse{
		AssetID:       asset.AssetID.String(),
		Symbol:        asset.Symbol,
		Decimals:      asset.Decimals,
		IsEnabled:     asset.IsEnabled,
		CreatedAt:     asset.CreatedAt,
		CreatedBy:     asset.CreatedBy,
		LastUpdatedAt: asset.LastUpdatedAt,
		LastUpdatedBy: asset.LastUpdatedBy,
	}
}

// ToListAssetResponse converts a slice of domain.Asset to a slice of AssetResponse DTOs
func ToListAssetResponse(assets []domain.Asset) []AssetResponse {
	res := make([]AssetResponse, len(assets))
	for i, asset := range assets {
		res[i] = ToAssetResponse(&asset)
	}
	return res
}
