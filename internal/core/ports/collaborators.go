package ports

import (
	"context"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceFeed is the raw oracle boundary. Validity and staleness checks live in
// the OracleService, not here; a feed just reports what it last saw.
type PriceFeed interface {
	LatestPrice(ctx context.Context) (domain.PriceSnapshot, error)
	// Source identifies the feed for notifications and logs.
	Source() string
}

// TransferMechanism moves assets between external owners and the bank's
// custody. Both directions can fail; the accounting core treats a failed pull
// as a full abort and a failed push as a surfaced, uncompensated error.
type TransferMechanism interface {
	PullFrom(ctx context.Context, ownerID string, assetID domain.AssetID, amount decimal.Decimal) error
	PushTo(ctx context.Context, recipientID string, assetID domain.AssetID, amount decimal.Decimal) error
}

// Notifier publishes the bank's observable events. Implementations must not
// fail the surrounding operation; delivery is best effort.
type Notifier interface {
	DepositCompleted(ctx context.Context, event domain.DepositCompleted)
	WithdrawalCompleted(ctx context.Context, event domain.WithdrawalCompleted)
	PriceFeedSourceChanged(ctx context.Context, event domain.PriceFeedSourceChanged)
}
