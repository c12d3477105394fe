package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/utils/fixedpoint"
	"github.com/shopspring/decimal"
)

// PriceFeedFactory builds a price feed from an operator-supplied source URL.
// Injected so the service layer never depends on a concrete feed adapter.
type PriceFeedFactory func(feedURL string) ports.PriceFeed

// BankService orchestrates deposits and withdrawals end to end in strict
// check-effects order: normalize, value, pull (tokens), commit, notify.
// It encodes no identity or permission logic; callers are trusted.
type BankService struct {
	ledger      ports.LedgerRepository
	assets      *AssetService
	valuation   *ValuationService
	oracle      *OracleService
	transfer    ports.TransferMechanism
	notifier    ports.Notifier
	feedFactory PriceFeedFactory
	logger      *slog.Logger
}

// NewBankService creates the accounting core around its collaborators.
func NewBankService(
	ledger ports.LedgerRepository,
	assets *AssetService,
	valuation *ValuationService,
	oracle *OracleService,
	transfer ports.TransferMechanism,
	notifier ports.Notifier,
	feedFactory PriceFeedFactory,
	logger *slog.Logger,
) *BankService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BankService{
		ledger:      ledger,
		assets:      assets,
		valuation:   valuation,
		oracle:      oracle,
		transfer:    transfer,
		notifier:    notifier,
		feedFactory: feedFactory,
		logger:      logger,
	}
}

// Deposit normalizes and values the raw amount, pulls token funds into
// custody, then commits the accounting atomically.
//
// For token assets the pull-transfer happens BEFORE the ledger commit so a
// balance is never credited for funds not actually received. If the cap check
// then rejects the deposit, the pulled funds stay in custody unaccounted;
// CustodyOf exposes them and the treasury sweep reclaims them. No automatic
// refund is attempted.
func (s *BankService) Deposit(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) (*domain.DepositReceipt, error) {
	if rawAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}

	decimals, err := s.assets.NativeDecimalsOf(ctx, assetID)
	if err != nil {
		return nil, err
	}

	amountInternal, err := fixedpoint.Normalize(rawAmount, decimals)
	if err != nil {
		return nil, err
	}
	if amountInternal.IsZero() {
		return nil, fmt.Errorf("%w: amount %s truncates to zero at accounting precision", apperrors.ErrValidation, rawAmount)
	}

	usdValue, err := s.valuation.AccountingValue(ctx, assetID, amountInternal)
	if err != nil {
		return nil, err
	}

	// Pull token funds into custody first; native value arrives with the call.
	if !assetID.IsNative() {
		if err := s.transfer.PullFrom(ctx, ownerID, assetID, rawAmount); err != nil {
			return nil, &apperrors.TransferFailedError{
				Op: "pull", OwnerID: ownerID, AssetID: assetID.String(), Amount: rawAmount, Err: err,
			}
		}
	}

	if err := s.ledger.CreditCustody(ctx, assetID, amountInternal); err != nil {
		return nil, fmt.Errorf("failed to record custody for asset %s: %w", assetID, err)
	}

	if err := s.ledger.RecordDeposit(ctx, ownerID, assetID, amountInternal, usdValue); err != nil {
		// Pulled funds remain as uncommitted custody; the treasury sweep
		// is the recovery path.
		s.logger.Warn("Deposit rejected after custody intake",
			slog.String("owner_id", ownerID),
			slog.String("asset_id", assetID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	receipt := &domain.DepositReceipt{
		OwnerID:          ownerID,
		AssetID:          assetID,
		RawAmount:        rawAmount,
		NormalizedAmount: amountInternal,
		USDValue:         usdValue,
	}

	s.notifier.DepositCompleted(ctx, domain.DepositCompleted{
		OwnerID:   ownerID,
		AssetID:   assetID,
		RawAmount: rawAmount,
		USDValue:  usdValue,
	})

	return receipt, nil
}

// Withdraw decrements the owner's balance, then pushes the raw amount out.
//
// The decrement commits before the push. If the push then fails, the
// decrement stands and a *apperrors.TransferFailedError is surfaced,
// distinct from InsufficientFunds. Compensation is the surrounding system's
// responsibility; this core does not roll back.
func (s *BankService) Withdraw(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) (*domain.WithdrawalReceipt, error) {
	if rawAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}

	decimals, err := s.assets.NativeDecimalsOf(ctx, assetID)
	if err != nil {
		return nil, err
	}

	amountInternal, err := fixedpoint.Normalize(rawAmount, decimals)
	if err != nil {
		return nil, err
	}
	if amountInternal.IsZero() {
		return nil, fmt.Errorf("%w: amount %s truncates to zero at accounting precision", apperrors.ErrValidation, rawAmount)
	}

	if err := s.ledger.RecordWithdrawal(ctx, ownerID, assetID, amountInternal); err != nil {
		return nil, err
	}

	if err := s.transfer.PushTo(ctx, ownerID, assetID, rawAmount); err != nil {
		s.logger.Error("Outbound transfer failed after ledger decrement",
			slog.String("owner_id", ownerID),
			slog.String("asset_id", assetID.String()),
			slog.String("amount", rawAmount.String()),
			slog.String("error", err.Error()),
		)
		return nil, &apperrors.TransferFailedError{
			Op: "push", OwnerID: ownerID, AssetID: assetID.String(), Amount: rawAmount, Err: err,
		}
	}

	if err := s.ledger.DebitCustody(ctx, assetID, amountInternal); err != nil {
		return nil, fmt.Errorf("failed to release custody for asset %s: %w", assetID, err)
	}

	receipt := &domain.WithdrawalReceipt{
		OwnerID:          ownerID,
		AssetID:          assetID,
		RawAmount:        rawAmount,
		NormalizedAmount: amountInternal,
	}

	s.notifier.WithdrawalCompleted(ctx, domain.WithdrawalCompleted{
		OwnerID:   ownerID,
		AssetID:   assetID,
		RawAmount: rawAmount,
	})

	return receipt, nil
}

// BalanceOf returns the owner's recorded balance for the asset, zero if unseen.
func (s *BankService) BalanceOf(ctx context.Context, ownerID string, assetID domain.AssetID) (decimal.Decimal, error) {
	return s.ledger.BalanceOf(ctx, ownerID, assetID)
}

// Summary returns the bank-wide counters.
func (s *BankService) Summary(ctx context.Context) (*domain.LedgerSummary, error) {
	total, err := s.ledger.TotalValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read total value: %w", err)
	}
	count, err := s.ledger.DepositCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deposit count: %w", err)
	}
	return &domain.LedgerSummary{
		TotalValue:   total,
		DepositCount: count,
		BankCap:      s.ledger.BankCap(),
	}, nil
}

// CustodyOf exposes the raw custodied amount for an asset. Not gated by the
// per-user ledger; the administrative sweep reads this.
func (s *BankService) CustodyOf(ctx context.Context, assetID domain.AssetID) (decimal.Decimal, error) {
	return s.ledger.CustodyOf(ctx, assetID)
}

// SweepTreasury pushes custodied funds to a recipient without touching
// per-user balances. The amount is in internal accounting units; the outbound
// transfer re-expands it to the asset's native precision. Permission gating
// is the caller's responsibility.
func (s *BankService) SweepTreasury(ctx context.Context, assetID domain.AssetID, recipientID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: sweep amount must be positive", apperrors.ErrValidation)
	}

	custody, err := s.ledger.CustodyOf(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to read custody for asset %s: %w", assetID, err)
	}
	if custody.LessThan(amount) {
		return fmt.Errorf("%w: sweep amount %s exceeds custody %s", apperrors.ErrValidation, amount, custody)
	}

	decimals, err := s.assets.NativeDecimalsOf(ctx, assetID)
	if err != nil {
		return err
	}
	rawAmount, err := fixedpoint.Expand(amount, decimals)
	if err != nil {
		return err
	}

	if err := s.transfer.PushTo(ctx, recipientID, assetID, rawAmount); err != nil {
		return &apperrors.TransferFailedError{
			Op: "push", OwnerID: recipientID, AssetID: assetID.String(), Amount: rawAmount, Err: err,
		}
	}

	if err := s.ledger.DebitCustody(ctx, assetID, amount); err != nil {
		return fmt.Errorf("failed to release custody for asset %s: %w", assetID, err)
	}

	s.logger.Info("Treasury sweep completed",
		slog.String("asset_id", assetID.String()),
		slog.String("recipient_id", recipientID),
		slog.String("amount", amount.String()),
	)
	return nil
}

// ReplacePriceFeed swaps the oracle's feed source and emits the
// price-feed-source-changed notification.
func (s *BankService) ReplacePriceFeed(ctx context.Context, feedURL string) error {
	if feedURL == "" {
		return fmt.Errorf("%w: feed URL is required", apperrors.ErrValidation)
	}

	feed := s.feedFactory(feedURL)
	previous := s.oracle.ReplaceFeed(feed)

	s.notifier.PriceFeedSourceChanged(ctx, domain.PriceFeedSourceChanged{
		PreviousSource: previous,
		NewSource:      feed.Source(),
	})
	return nil
}
