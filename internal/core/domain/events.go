package domain

import "github.com/shopspring/decimal"

// DepositCompleted is emitted after a deposit has been committed to the ledger.
type DepositCompleted struct {
	OwnerID   string          `json:"ownerID"`
	AssetID   AssetID         `json:"assetID"`
	RawAmount decimal.Decimal `json:"rawAmount"`
	USDValue  decimal.Decimal `json:"usdValue"`
}

// WithdrawalCompleted is emitted after a withdrawal has been committed and the
// outbound transfer succeeded.
type WithdrawalCompleted struct {
	OwnerID   string          `json:"ownerID"`
	AssetID   AssetID         `json:"assetID"`
	RawAmount decimal.Decimal `json:"rawAmount"`
}

// PriceFeedSourceChanged is emitted when an operator replaces the oracle feed.
type PriceFeedSourceChanged struct {
	PreviousSource string `json:"previousSource"`
	NewSource      string `json:"newSource"`
}
