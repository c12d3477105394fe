// Package notify emits ledger lifecycle events. The slog notifier writes them
// as structured log records; notification is best effort and never feeds back
// into the accounting path.
package notify

import (
	"context"
	"log/slog"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
)

// SlogNotifier logs each event at info level.
type SlogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*SlogNotifier)(nil)

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

// DepositCompleted logs an accepted deposit.
func (n *SlogNotifier) DepositCompleted(ctx context.Context, event domain.DepositCompleted) {
	n.logger.InfoContext(ctx, "Deposit completed",
		slog.String("owner_id", event.OwnerID),
		slog.String("asset_id", event.AssetID.String()),
		slog.String("raw_amount", event.RawAmount.String()),
		slog.String("usd_value", event.USDValue.String()),
	)
}

// WithdrawalCompleted logs a settled withdrawal.
func (n *SlogNotifier) WithdrawalCompleted(ctx context.Context, event domain.WithdrawalCompleted) {
	n.logger.InfoContext(ctx, "Withdrawal completed",
		slog.String("owner_id", event.OwnerID),
		slog.String("asset_id", event.AssetID.String()),
		slog.String("raw_amount", event.RawAmount.String()),
	)
}

// PriceFeedSourceChanged logs an oracle feed swap.
func (n *SlogNotifier) PriceFeedSourceChanged(ctx context.Context, event domain.PriceFeedSourceChanged) {
	n.logger.InfoContext(ctx, "Price feed source changed",
		slog.String("previous_source", event.PreviousSource),
		slog.String("new_source", event.NewSource),
	)
}
