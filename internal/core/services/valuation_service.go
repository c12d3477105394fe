package services

import (
	"context"
	"fmt"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/utils/fixedpoint"
	"github.com/shopspring/decimal"
)

// ValuationStrategy converts an internal-precision asset amount into its
// USD-equivalent accounting value, also at internal precision.
type ValuationStrategy func(ctx context.Context, amountInternal decimal.Decimal) (decimal.Decimal, error)

// ValuationService converts asset amounts into the common accounting unit.
// Only the native value asset carries a live-pricing strategy; every other
// asset defaults to identity, an explicit 1:1 stablecoin-peg simplification
// rather than real price discovery. Strategies are pluggable per asset so a future
// extension can add real pricing without changing this contract.
type ValuationService struct {
	oracle     *OracleService
	strategies map[domain.AssetID]ValuationStrategy
}

// NewValuationService creates a ValuationService with the native-asset oracle
// strategy pre-registered.
func NewValuationService(oracle *OracleService) *ValuationService {
	s := &ValuationService{
		oracle:     oracle,
		strategies: make(map[domain.AssetID]ValuationStrategy),
	}
	s.strategies[domain.NativeAssetID] = s.nativeAssetValue
	return s
}

// RegisterStrategy installs a per-asset valuation strategy, replacing the
// identity default for that asset.
func (s *ValuationService) RegisterStrategy(assetID domain.AssetID, strategy ValuationStrategy) {
	s.strategies[assetID] = strategy
}

// AccountingValue returns the USD-equivalent of an internal-precision amount.
// Oracle errors from the native-asset path propagate unchanged.
func (s *ValuationService) AccountingValue(ctx context.Context, assetID domain.AssetID, amountInternal decimal.Decimal) (decimal.Decimal, error) {
	if strategy, ok := s.strategies[assetID]; ok {
		return strategy(ctx, amountInternal)
	}
	// Pegged 1:1 to the accounting unit.
	return amountInternal, nil
}

// nativeAssetValue prices the native asset via the oracle. The internal
// amount is re-expanded to native precision before multiplying so the single
// combined divisor applies exactly one truncation:
//
//	value = (amount_native_units * price) / 10^(NativeAssetDecimals + PriceDecimals - InternalDecimals)
func (s *ValuationService) nativeAssetValue(ctx context.Context, amountInternal decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.oracle.ValueAssetPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	rawAmount, err := fixedpoint.Expand(amountInternal, domain.NativeAssetDecimals)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to expand amount for valuation: %w", err)
	}

	divisorExp := domain.NativeAssetDecimals + domain.PriceDecimals - fixedpoint.InternalDecimals
	return rawAmount.Mul(price).Shift(-divisorExp).Truncate(0), nil
}
