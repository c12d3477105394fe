package ports

import (
	"context"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankSvcFacade is the service interface the HTTP layer depends on for
// deposits, withdrawals and bank-wide queries. Identity and permission checks
// are the HTTP layer's job; the facade trusts the ownerID it is given.
type BankSvcFacade interface {
	Deposit(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) (*domain.DepositReceipt, error)
	Withdraw(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) (*domain.WithdrawalReceipt, error)
	BalanceOf(ctx context.Context, ownerID string, assetID domain.AssetID) (decimal.Decimal, error)
	Summary(ctx context.Context) (*domain.LedgerSummary, error)

	// Administrative surface. Callers must be permission-gated upstream.
	CustodyOf(ctx context.Context, assetID domain.AssetID) (decimal.Decimal, error)
	SweepTreasury(ctx context.Context, assetID domain.AssetID, recipientID string, amount decimal.Decimal) error
	ReplacePriceFeed(ctx context.Context, feedURL string) error
}

// AssetSvcFacade manages the token asset registry.
type AssetSvcFacade interface {
	RegisterAsset(ctx context.Context, assetID domain.AssetID, symbol string, decimals int32, creatorUserID string) (*domain.Asset, error)
	GetAsset(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error)
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	// NativeDecimalsOf resolves an asset's issuer-defined precision; the
	// native sentinel resolves to domain.NativeAssetDecimals.
	NativeDecimalsOf(ctx context.Context, assetID domain.AssetID) (int32, error)
}

// ServiceContainer holds instances of all the application services. Handlers
// receive this rather than concrete service types.
type ServiceContainer struct {
	Bank  BankSvcFacade
	Asset AssetSvcFacade
}
