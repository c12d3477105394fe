// Package memory provides in-process repository implementations. They back
// the service in development mode and give the test suites a real ledger with
// the exact atomicity semantics the ports demand.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	ownerID string
	assetID domain.AssetID
}

// LedgerRepository is a mutex-guarded in-memory ledger. A single lock covers
// every check-then-mutate sequence, so no two operations can interleave
// between a cap/balance check and its mutation.
type LedgerRepository struct {
	mu           sync.Mutex
	bankCap      decimal.Decimal
	balances     map[balanceKey]decimal.Decimal
	custody      map[domain.AssetID]decimal.Decimal
	totalValue   decimal.Decimal
	depositCount int64
}

var _ ports.LedgerRepository = (*LedgerRepository)(nil)

// NewLedgerRepository creates an empty ledger with the given immutable cap.
func NewLedgerRepository(bankCap decimal.Decimal) *LedgerRepository {
	return &LedgerRepository{
		bankCap:  bankCap,
		balances: make(map[balanceKey]decimal.Decimal),
		custody:  make(map[domain.AssetID]decimal.Decimal),
	}
}

// RecordDeposit checks the cap and commits balance, total and counter in one
// critical section. On rejection nothing is mutated.
func (r *LedgerRepository) RecordDeposit(ctx context.Context, ownerID string, assetID domain.AssetID, amount, usdValue decimal.Decimal) error {
	if amount.IsNegative() || usdValue.IsNegative() {
		return fmt.Errorf("%w: deposit amounts must not be negative", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	newTotal := r.totalValue.Add(usdValue)
	if newTotal.GreaterThan(r.bankCap) {
		return &apperrors.CapExceededError{
			Cap:            r.bankCap,
			CurrentTotal:   r.totalValue,
			AttemptedValue: usdValue,
		}
	}

	key := balanceKey{ownerID: ownerID, assetID: assetID}
	r.balances[key] = r.balances[key].Add(amount)
	r.totalValue = newTotal
	r.depositCount++
	return nil
}

// RecordWithdrawal checks and decrements the balance in one critical section.
// The global total is intentionally left untouched: it tracks lifetime inflow
// against the cap, not current custody.
func (r *LedgerRepository) RecordWithdrawal(ctx context.Context, ownerID string, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal amount must not be negative", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{ownerID: ownerID, assetID: assetID}
	balance := r.balances[key]
	if balance.LessThan(amount) {
		return &apperrors.InsufficientFundsError{
			OwnerID:   ownerID,
			AssetID:   assetID.String(),
			Balance:   balance,
			Requested: amount,
		}
	}

	r.balances[key] = balance.Sub(amount)
	return nil
}

// BalanceOf returns zero for unseen (owner, asset) pairs.
func (r *LedgerRepository) BalanceOf(ctx context.Context, ownerID string, assetID domain.AssetID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[balanceKey{ownerID: ownerID, assetID: assetID}], nil
}

// TotalValue returns the cumulative USD value of accepted deposits.
func (r *LedgerRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalValue, nil
}

// DepositCount returns the number of accepted deposits.
func (r *LedgerRepository) DepositCount(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depositCount, nil
}

// BankCap returns the immutable cap fixed at construction.
func (r *LedgerRepository) BankCap() decimal.Decimal {
	return r.bankCap
}

// CreditCustody adds to the asset's custodied amount.
func (r *LedgerRepository) CreditCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: custody amount must not be negative", apperrors.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custody[assetID] = r.custody[assetID].Add(amount)
	return nil
}

// DebitCustody removes from the asset's custodied amount.
func (r *LedgerRepository) DebitCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: custody amount must not be negative", apperrors.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	held := r.custody[assetID]
	if held.LessThan(amount) {
		return fmt.Errorf("%w: custody debit %s exceeds held %s for asset %s", apperrors.ErrValidation, amount, held, assetID)
	}
	r.custody[assetID] = held.Sub(amount)
	return nil
}

// CustodyOf returns the custodied amount for an asset, zero if unseen.
func (r *LedgerRepository) CustodyOf(ctx context.Context, assetID domain.AssetID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.custody[assetID], nil
}
