package domain

import "github.com/shopspring/decimal"

// DepositReceipt summarizes an accepted deposit. NormalizedAmount and
// USDValue are in the internal 6-decimal accounting unit; RawAmount is in the
// asset's native precision as submitted by the caller.
type DepositReceipt struct {
	OwnerID          string          `json:"ownerID"`
	AssetID          AssetID         `json:"assetID"`
	RawAmount        decimal.Decimal `json:"rawAmount"`
	NormalizedAmount decimal.Decimal `json:"normalizedAmount"`
	USDValue         decimal.Decimal `json:"usdValue"`
}

// WithdrawalReceipt summarizes an accepted withdrawal.
type WithdrawalReceipt struct {
	OwnerID          string          `json:"ownerID"`
	AssetID          AssetID         `json:"assetID"`
	RawAmount        decimal.Decimal `json:"rawAmount"`
	NormalizedAmount decimal.Decimal `json:"normalizedAmount"`
}

// LedgerSummary exposes the bank-wide counters. TotalValue is the cumulative
// USD value of accepted deposits; it is never decremented by withdrawals, so
// it tracks lifetime inflow against the cap.
type LedgerSummary struct {
	TotalValue   decimal.Decimal `json:"totalValue"`
	DepositCount int64           `json:"depositCount"`
	BankCap      decimal.Decimal `json:"bankCap"`
}
