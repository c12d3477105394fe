package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetID is an opaque handle distinguishing custodied assets. The native
// value asset is identified by the reserved NativeAssetID sentinel; every
// other ID refers to a fungible token enrolled in the asset registry.
type AssetID string

// NativeAssetID is the reserved sentinel for the chain's native value asset.
const NativeAssetID AssetID = "native"

const (
	// NativeAssetDecimals is the fixed-point precision of the native value asset.
	NativeAssetDecimals int32 = 18
	// PriceDecimals is the fixed-point precision reported by the price oracle.
	PriceDecimals int32 = 8
)

// IsNative reports whether the ID refers to the native value asset.
func (id AssetID) IsNative() bool {
	return id == NativeAssetID
}

func (id AssetID) String() string {
	return string(id)
}

// Asset describes a fungible token supported by the bank. Decimals is the
// issuer-defined fixed-point precision, assumed constant for the token's
// lifetime. The native asset is not stored in the registry; its precision is
// the NativeAssetDecimals constant.
type Asset struct {
	AssetID   AssetID `json:"assetID"`
	Symbol    string  `json:"symbol"`
	Decimals  int32   `json:"decimals"`
	IsEnabled bool    `json:"isEnabled"`
	AuditFields
}

// PriceSnapshot is a transient oracle reading. It is fetched fresh on every
// valuation and never cached across calls.
type PriceSnapshot struct {
	// Price in PriceDecimals fixed-point precision (USD per native asset unit).
	Price     decimal.Decimal
	UpdatedAt time.Time
}
