package dto

import (
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to deposit into the bank.
// Amount is the raw on-chain quantity in the asset's native precision.
type DepositRequest struct {
	AssetID string          `json:"assetID" binding:"required,assetid"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest defines the data needed to withdraw from the bank.
type WithdrawRequest struct {
	AssetID string          `json:"assetID" binding:"required,assetid"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// DepositResponse defines the data returned for an accepted deposit.
type DepositResponse struct {
	OwnerID          string          `json:"ownerID"`
	AssetID          string          `json:"assetID"`
	RawAmount        decimal.Decimal `json:"rawAmount"`
	NormalizedAmount decimal.Decimal `json:"normalizedAmount"`
	USDValue         decimal.Decimal `json:"usdValue"`
}

// WithdrawalResponse defines the data returned for a settled withdrawal.
type WithdrawalResponse struct {
	OwnerID          string          `json:"ownerID"`
	AssetID          string          `json:"assetID"`
	RawAmount        decimal.Decimal `json:"rawAmount"`
	NormalizedAmount decimal.Decimal `json:"normalizedAmount"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	OwnerID string          `json:"ownerID"`
	AssetID string          `json:"assetID"`
	Balance decimal.Decimal `json:"balance"`
}

// SummaryResponse defines the bank-wide counters.
type SummaryResponse struct {
	TotalValue   decimal.Decimal `json:"totalValue"`
	DepositCount int64           `json:"depositCount"`
	BankCap      decimal.Decimal `json:"bankCap"`
}

// CustodyResponse defines the custodied amount of an asset.
type CustodyResponse struct {
	AssetID string          `json:"assetID"`
	Amount  decimal.Decimal `json:"amount"`
}

// SweepRequest defines the data needed to sweep custodied funds.
// Amount is in internal accounting units.
type SweepRequest struct {
	AssetID     string          `json:"assetID" binding:"required,assetid"`
	RecipientID string          `json:"recipientID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// ReplacePriceFeedRequest defines the data needed to swap the oracle feed.
type ReplacePriceFeedRequest struct {
	FeedURL string `json:"feedURL" binding:"required,url"`
}

// ToDepositResponse converts a domain.DepositReceipt to DepositResponse DTO
func ToDepositResponse(receipt *domain.DepositReceipt) DepositResponse {
	return DepositResponse{
		OwnerID:          receipt.OwnerID,
		AssetID:          receipt.AssetID.String(),
		RawAmount:        receipt.RawAmount,
		NormalizedAmount: receipt.NormalizedAmount,
		USDValue:         receipt.USDValue,
	}
}

// ToWithdrawalResponse converts a domain.WithdrawalReceipt to WithdrawalResponse DTO
func ToWithdrawalResponse(receipt *domain.WithdrawalReceipt) WithdrawalResponse {
	return WithdrawalResponse{
		OwnerID:          receipt.OwnerID,
		AssetID:          receipt.AssetID.String(),
		RawAmount:        receipt.RawAmount,
		NormalizedAmount: receipt.NormalizedAmount,
	}
}

// ToSummaryResponse converts a domain.LedgerSummary to SummaryResponse DTO
func ToSummaryResponse(summary *domain.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		TotalValue:   summary.TotalValue,
		DepositCount: summary.DepositCount,
		BankCap:      summary.BankCap,
	}
}
