package ports

import (
	"context"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the bank's single source of truth for balances, the
// global deposited value and the deposit counter. Every amount is in the
// internal accounting precision.
//
// Implementations MUST make the check-then-mutate sequences in RecordDeposit
// and RecordWithdrawal indivisible with respect to concurrent callers: no two
// operations may interleave between the cap/balance check and the mutation.
type LedgerRepository interface {
	// RecordDeposit atomically checks the cap and, if accepted, increments
	// the owner's balance, the global total and the deposit counter.
	// Returns *apperrors.CapExceededError on rejection; nothing is mutated.
	RecordDeposit(ctx context.Context, ownerID string, assetID domain.AssetID, amount, usdValue decimal.Decimal) error

	// RecordWithdrawal atomically checks the owner's balance and decrements
	// it. Returns *apperrors.InsufficientFundsError on rejection.
	RecordWithdrawal(ctx context.Context, ownerID string, assetID domain.AssetID, amount decimal.Decimal) error

	// BalanceOf returns zero for unseen (owner, asset) pairs.
	BalanceOf(ctx context.Context, ownerID string, assetID domain.AssetID) (decimal.Decimal, error)

	TotalValue(ctx context.Context) (decimal.Decimal, error)
	DepositCount(ctx context.Context) (int64, error)
	BankCap() decimal.Decimal

	// Custody bookkeeping tracks the amounts physically held per asset,
	// independent of the per-user ledger. Custody may exceed the sum of
	// balances when a pulled deposit was later rejected by the cap check;
	// that surplus is what the treasury sweep reclaims.
	CreditCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error
	DebitCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error
	CustodyOf(ctx context.Context, assetID domain.AssetID) (decimal.Decimal, error)
}

// AssetRepository defines persistence for the token asset registry. The
// native asset is never stored; callers special-case the sentinel ID.
type AssetRepository interface {
	SaveAsset(ctx context.Context, asset domain.Asset) error
	FindAssetByID(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error)
	ListAssets(ctx context.Context) ([]domain.Asset, error)
}
