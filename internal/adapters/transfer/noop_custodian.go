package transfer

import (
	"context"
	"log/slog"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/shopspring/decimal"
)

// NoopCustodian accepts every transfer without moving anything. Development
// mode runs on it when no custodian URL is configured.
type NoopCustodian struct {
	logger *slog.Logger
}

var _ ports.TransferMechanism = (*NoopCustodian)(nil)

// NewNoopCustodian creates a custodian that logs and succeeds.
func NewNoopCustodian(logger *slog.Logger) *NoopCustodian {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopCustodian{logger: logger}
}

// PullFrom logs the intent and succeeds.
func (c *NoopCustodian) PullFrom(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	c.logger.Debug("Noop custodian pull",
		slog.String("owner_id", ownerID),
		slog.String("asset_id", assetID.String()),
		slog.String("amount", rawAmount.String()),
	)
	return nil
}

// PushTo logs the intent and succeeds.
func (c *NoopCustodian) PushTo(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	c.logger.Debug("Noop custodian push",
		slog.String("owner_id", ownerID),
		slog.String("asset_id", assetID.String()),
		slog.String("amount", rawAmount.String()),
	)
	return nil
}
